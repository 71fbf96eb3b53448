package graphsync

// Draw paints edges clipped to the chart area, then nodes on top. With no
// edge elements the clip is skipped entirely.
func (c *Controller) Draw() {
	canvas := c.chart.Canvas()
	edges := c.edges.All()

	if len(edges) > 0 {
		canvas.Clip(c.chart.Area)
		for _, el := range edges {
			el.Draw(canvas)
		}
		canvas.Unclip()
	}

	c.nodes.Draw()
}
