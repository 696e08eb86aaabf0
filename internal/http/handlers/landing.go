package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const landingPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Ticket Assigner</title>
<style>
body { font-family: sans-serif; background: #f6f6f9; color: #222; }
main { max-width: 760px; margin: 48px auto; padding: 24px; background: #fff; border-radius: 8px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 10px; border: 1px solid #ddd; text-align: left; }
th { background: #3b3fb6; color: #fff; }
</style>
</head>
<body>
<main>
<h1>Ticket Assigner</h1>
<table>
<thead><tr><th>Method</th><th>Route</th><th>Description</th></tr></thead>
<tbody>
<tr><td>GET</td><td><a href="/tickets">/tickets</a></td><td>All tickets</td></tr>
<tr><td>GET</td><td><a href="/tickets/agents">/tickets/agents</a></td><td>Ticket count per assigned agent</td></tr>
<tr><td>GET</td><td><a href="/agents">/agents</a></td><td>All agents</td></tr>
<tr><td>POST</td><td>/tickets/auto-assign</td><td>Assign "Auto Assign" tickets to the least loaded agent on shift</td></tr>
<tr><td>GET</td><td><a href="/runs/latest">/runs/latest</a></td><td>Summary of the last auto-assign run</td></tr>
<tr><td>GET</td><td><a href="/swagger/index.html">/swagger</a></td><td>API documentation</td></tr>
</tbody>
</table>
</main>
</body>
</html>
`

func (h *Handler) Landing(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(landingPage))
}
