package vgraph

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := vgraph.NewEngine(dev,
//		vgraph.WithResolution(vgraph.Res720p),
//		vgraph.WithGraph(restored))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	resolution Resolution
	graph      *Graph
}

func defaultOptions() engineOptions {
	return engineOptions{
		resolution: Res360p,
	}
}

// WithResolution sets the initial global render resolution.
// The default is Res360p.
func WithResolution(r Resolution) Option {
	return func(o *engineOptions) {
		o.resolution = r
	}
}

// WithGraph starts the engine with an existing graph, typically one
// rebuilt from a snapshot. The default is a fresh graph holding only the
// output node.
func WithGraph(g *Graph) Option {
	return func(o *engineOptions) {
		if g != nil {
			o.graph = g
		}
	}
}
