package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/akeren/purim-rsvp/pkg/ratelimit"
)

func normalizePath(controller *RESTController, relativePath string) string {
	path := controller.mountPoint

	if relativePath != "" {
		path = path + "/" + relativePath
	}

	if path[0] != '/' {
		path = "/" + path
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return strings.ReplaceAll(path, "//", "/")
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
			return
		}

		if result.Attachment != nil {
			if result.Attachment.Filename != "" {
				c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Attachment.Filename))
			}
			c.Data(result.StatusCode, result.Attachment.ContentType, result.Attachment.Body)
			return
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: strings.ReplaceAll("/"+mountPoint, "//", "/"),
		prepare:    prepare,
	}
}

// NewVersionedRESTController mounts under /<version>/<mountPoint>.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: strings.ReplaceAll("/"+version+"/"+mountPoint, "//", "/"),
		version:    version,
		prepare:    prepare,
	}
}

// addHandler registers one route. A nil limiter falls back to the default policy.
func (routerService *RouterService) addHandler(
	method string,
	controller *RESTController,
	limiter ratelimit.Limiter,
	path string,
	handler HandlerFunction,
	middlewares []MiddlewareFunc,
) {
	fullPath := normalizePath(controller, path)
	key := routeKey(method, fullPath)

	if previous, found := routerService.routes[key]; found {
		panic(fmt.Sprintf("%s is already registered by controller '%s'", key, previous.controller.name))
	}

	routerService.routes[key] = &route{controller: controller, limiter: limiter}
	controller.handlerCount++

	chain := append(append([]MiddlewareFunc{}, middlewares...), createHandler(handler))
	routerService.engine.Handle(method, fullPath, chain...)

	policy := routerService.defaultLimiter.Policy().Name
	if limiter != nil {
		policy = limiter.Policy().Name
	}
	routerService.logger.Debug("Handler registered", "method", method, "path", fullPath, "rate_limit_policy", policy)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, limiter ratelimit.Limiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodGet, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, limiter ratelimit.Limiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodPost, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddPutHandler(controller *RESTController, limiter ratelimit.Limiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodPut, controller, limiter, path, handler, middlewares)
}

func (routerService *RouterService) AddDeleteHandler(controller *RESTController, limiter ratelimit.Limiter, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodDelete, controller, limiter, path, handler, middlewares)
}
