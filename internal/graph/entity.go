package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EntityID is an entity identifier which may arrive as a JSON number or string.
type EntityID string

func (id *EntityID) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case string:
		*id = EntityID(value)
	case float64:
		*id = EntityID(strconv.FormatFloat(value, 'f', -1, 64))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("invalid entity id: %#v", raw)
	}

	return nil
}

// Entity is something extracted from a meeting: a person, company, topic or meeting.
type Entity struct {
	ID   EntityID `json:"id"`
	Name string   `json:"name" validate:"required"`
	Type string   `json:"type"`
}

// NodeType determines how a node is drawn and its default size.
type NodeType string

const (
	NodeMeeting NodeType = "meeting"
	NodePerson  NodeType = "person"
	NodeCompany NodeType = "company"
	NodeTopic   NodeType = "topic"
)

// ParseNodeType maps an external entity type on to a NodeType. It never fails, anything
// unrecognised is treated as a topic.
func ParseNodeType(s string) NodeType {
	switch NodeType(strings.ToLower(strings.TrimSpace(s))) {
	case NodeMeeting:
		return NodeMeeting
	case NodePerson:
		return NodePerson
	case NodeCompany:
		return NodeCompany
	case NodeTopic:
		return NodeTopic
	default:
		return NodeTopic
	}
}

// Icon returns the name of the icon surfaces draw for this type.
func (t NodeType) Icon() string {
	switch t {
	case NodePerson:
		return "user"
	case NodeCompany:
		return "building"
	case NodeTopic:
		return "hash"
	case NodeMeeting:
		return "calendar"
	default:
		return "circle"
	}
}
