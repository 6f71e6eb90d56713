package vis

// Formatted with the canvas width and height, the JSON encoded network, then the point
// to centre the view on.
var pageTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <style>
        * {
            margin: 0;
        }
        body {
            background: hsl(222, 47%%, 11%%);
        }
        #mynetwork {
            width: %dpx;
            height: %dpx;
        }
    </style>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="mynetwork"></div>
    <script type="text/javascript">
const graph = %s;

document.title = graph.title;

var container = document.getElementById("mynetwork");

var data = {
  nodes: new vis.DataSet(graph.nodes),
  edges: new vis.DataSet(graph.edges),
};

var options = {
  physics: {
    enabled: false,
  },
  interaction: {
    hover: true,
    dragNodes: false,
  },
  nodes: {
    font: { color: "hsl(210, 40%%, 96%%)", size: 11 },
    borderWidth: 2,
  },
};
var network = new vis.Network(container, data, options);
network.moveTo({ position: { x: %d, y: %d }, scale: 1 });
        </script>
  </body>
</html>`
