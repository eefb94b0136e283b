package provider

import (
	"net/http"
	"sync"
)

//	Stack is a minimal MiddlewareHost: middlewares wrap the final handler in registration order,
//	the first registered one sees the request first
type Stack struct {
	mtx         sync.RWMutex
	middlewares []func(next http.Handler) http.Handler
	handler     http.Handler
}

func NewStack(handler http.Handler) *Stack {
	return &Stack{handler: handler}
}

func (this *Stack) Use(middleware func(next http.Handler) http.Handler) {

	this.mtx.Lock()
	defer this.mtx.Unlock()

	this.middlewares = append(this.middlewares, middleware)
}

func (this *Stack) ServeHTTP(wrt http.ResponseWriter, req *http.Request) {

	this.mtx.RLock()
	handler := this.handler
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	for idx := len(this.middlewares) - 1; idx >= 0; idx-- {
		handler = this.middlewares[idx](handler)
	}
	this.mtx.RUnlock()

	handler.ServeHTTP(wrt, req)
}
