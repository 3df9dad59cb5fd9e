package layoutapi

import "net/http"

// Component bundles the layout handler, its configuration and routing
// helpers.
type Component struct {
	opts Options
}

func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return NewOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

func (c *Component) PreviewHandler() http.Handler {
	if c == nil {
		return PreviewHandler()
	}
	return PreviewHandlerWithOptions(c.opts)
}

func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
