package core

import "fmt"

// Router groups the commands, components and message handlers of one domain.
// Its middleware wraps every route registered after Use.
type Router struct {
	domain     string
	pipeline   *Pipeline
	middleware []Middleware
	ids        *CustomIDBuilder

	commands   map[string]Handler
	components map[string]Handler
	messages   []Handler
}

// NewRouter creates a router whose component IDs start with domain.
func NewRouter(domain string, pipeline *Pipeline) *Router {
	return &Router{
		domain:     domain,
		pipeline:   pipeline,
		ids:        NewCustomIDBuilder(domain),
		commands:   make(map[string]Handler),
		components: make(map[string]Handler),
	}
}

func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) wrap(h Handler) Handler {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](h)
	}
	return h
}

// Command routes !name. Command names are global, the domain does not
// prefix them, so registering the same name twice panics.
func (r *Router) Command(name string, handler Handler) *Router {
	if _, dup := r.commands[name]; dup {
		panic(fmt.Sprintf("router %s: command %q registered twice", r.domain, name))
	}
	r.commands[name] = r.wrap(handler)
	return r
}

func (r *Router) CommandFunc(name string, fn HandlerFunc) *Router {
	return r.Command(name, fn)
}

// ComponentFunc routes clicks on components whose custom ID is
// domain:action[...].
func (r *Router) ComponentFunc(action string, fn HandlerFunc) *Router {
	r.components[action] = r.wrap(fn)
	return r
}

// Message adds a handler for plain messages. Its CanHandle picks which ones
// it takes; the first willing handler wins.
func (r *Router) Message(handler Handler) *Router {
	r.messages = append(r.messages, r.wrap(handler))
	return r
}

// Register hands the router to its pipeline as a single handler.
func (r *Router) Register() {
	if r.pipeline != nil {
		r.pipeline.Register(r)
	}
}

func (r *Router) GetCustomIDBuilder() *CustomIDBuilder {
	return r.ids
}

func (r *Router) CanHandle(ctx *InteractionContext) bool {
	return r.route(ctx) != nil
}

func (r *Router) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	h := r.route(ctx)
	if h == nil {
		return nil, NewNotFoundError("route")
	}
	return h.Handle(ctx)
}

func (r *Router) route(ctx *InteractionContext) Handler {
	var h Handler
	switch {
	case ctx.IsCommand():
		h = r.commands[ctx.GetCommandName()]
	case ctx.IsComponent():
		id, err := ParseCustomID(ctx.GetCustomID())
		if err != nil || id.Domain != r.domain {
			return nil
		}
		h = r.components[id.Action]
	case ctx.IsMessage():
		for _, m := range r.messages {
			if m.CanHandle(ctx) {
				return m
			}
		}
		return nil
	}
	if h == nil || !h.CanHandle(ctx) {
		return nil
	}
	return h
}
