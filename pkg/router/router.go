package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// HandlerFunc is the shape of every endpoint. Handlers never touch the
// http.ResponseWriter; they return a response object or an error and the
// router owns the envelope.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may enrich the context or stop
// the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// Redirecter lets a response issue a browser redirect instead of the JSON
// envelope. An empty location falls back to the envelope.
type Redirecter interface {
	RedirectLocation() string
}

type route struct {
	handlers map[string]http.HandlerFunc
}

type Router struct {
	ctx     context.Context
	mux     *http.ServeMux
	routes  map[string]*route
	befores []MiddlewareFunc
}

// New builds a root router. The given context is the base of every request
// context and must carry the application dependencies.
func New(ctx context.Context) *Router {
	return &Router{
		ctx:    ctx,
		mux:    http.NewServeMux(),
		routes: make(map[string]*route),
	}
}

// Branch forks the middleware chain. Routes registered on the branch share
// the parent's mux but not middlewares added to the parent afterwards.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		routes:  r.routes,
		befores: append([]MiddlewareFunc{}, r.befores...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodPost, pattern, handler)
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodPut, pattern, handler)
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	register(r, http.MethodDelete, pattern, handler)
}

func register[Request, Response any](r *Router, method, pattern string, handler HandlerFunc[Request, Response]) {
	befores := append([]MiddlewareFunc{}, r.befores...)

	entry, ok := r.routes[pattern]
	if !ok {
		entry = &route{handlers: make(map[string]http.HandlerFunc)}
		r.routes[pattern] = entry
		r.mux.HandleFunc(pattern, entry.serve)
	}

	entry.handlers[method] = func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		for _, before := range befores {
			next, err := before(ctx)
			if err != nil {
				WriteError(ctx, w, err)
				return
			}
			ctx = next
		}

		request := new(Request)
		if err := bind(req, request); err != nil {
			WriteError(ctx, w, errorx.New(errorx.BadRequest, "Unable to bind the request"))
			return
		}

		resp, err := handler(ctx, request)
		if err != nil {
			WriteError(ctx, w, err)
			return
		}

		if redirecter, ok := any(resp).(Redirecter); ok {
			if location := redirecter.RedirectLocation(); location != "" {
				http.Redirect(w, req, location, http.StatusFound)
				return
			}
		}

		WriteSuccess(ctx, w, resp)
	}
}

func (r *route) serve(w http.ResponseWriter, req *http.Request) {
	handler, ok := r.handlers[req.Method]
	if !ok {
		WriteError(req.Context(), w, errorx.New(errorx.BadRequest, "Unsupported method %s", req.Method))
		return
	}

	handler(w, req)
}

func bind(req *http.Request, out any) error {
	switch req.Method {
	case http.MethodGet, http.MethodDelete:
		return bindQuery(req, out)
	default:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return bindQuery(req, out)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return err
		}

		return nil
	}
}

func bindQuery(req *http.Request, out any) error {
	values := make(map[string]any)
	for key, value := range req.URL.Query() {
		if len(value) > 0 {
			values[key] = value[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(values); err != nil {
		return errors.New("mismatched query type")
	}

	return nil
}
