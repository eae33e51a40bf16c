// Package router assembles the gin engine: middleware stack plus the
// versioned resource routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resource collects the routes of one API resource such as /sales
type Resource struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewResource starts a resource mounted at prefix. middleware runs for every
// route of the resource only.
func NewResource(prefix string, middleware ...gin.HandlerFunc) *Resource {
	return &Resource{prefix: prefix, middleware: middleware}
}

func (r *Resource) handle(method, path string, handlers []gin.HandlerFunc) *Resource {
	r.routes = append(r.routes, route{method: method, path: path, handlers: handlers})
	return r
}

func (r *Resource) GET(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.handle(http.MethodGet, path, handlers)
}

func (r *Resource) POST(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.handle(http.MethodPost, path, handlers)
}

func (r *Resource) PUT(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.handle(http.MethodPut, path, handlers)
}

func (r *Resource) DELETE(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.handle(http.MethodDelete, path, handlers)
}

// CRUD registers list, create, get, update and delete. create runs after
// createMiddleware, which is where the idempotency guard goes.
func (r *Resource) CRUD(list, get, update, remove gin.HandlerFunc, create ...gin.HandlerFunc) *Resource {
	return r.GET("", list).
		POST("", create...).
		GET("/:id", get).
		PUT("/:id", update).
		DELETE("/:id", remove)
}

// Action registers POST /:id/{name}, the shape of every state transition
// (confirm, receive, cancel).
func (r *Resource) Action(name string, handlers ...gin.HandlerFunc) *Resource {
	return r.POST("/:id/"+name, handlers...)
}

func (r *Resource) mount(rg *gin.RouterGroup) {
	group := rg.Group(r.prefix, r.middleware...)
	for _, rt := range r.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}

// Mount registers resources under /api/{version}; middleware applies to
// the whole versioned group.
func Mount(engine *gin.Engine, version string, middleware []gin.HandlerFunc, resources ...*Resource) *gin.RouterGroup {
	api := engine.Group("/api/"+version, middleware...)
	for _, r := range resources {
		r.mount(api)
	}
	return api
}
