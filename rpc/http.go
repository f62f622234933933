package rpc

import (
	stderr "errors"
	"fmt"
	"mime"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/rs/cors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
)

const HttpHeaderTraceID = "X-GATEWAY-TRACE-ID"

// statusPreProcessor is the status label of requests answered
// by a pre processor
const statusPreProcessor = "preprocessor"

// HttpPreProcessor processes a request and can directly write a response
// to the writer if required.
type HttpPreProcessor interface {
	// ServeHTTP is a similar interface to http.Handler with the difference
	// that it returns whether the request should be processed further,
	// along with the possibly modified request to process
	ServeHTTP(w http.ResponseWriter, req *http.Request) (bool, *http.Request)
}

// HttpMiddleware are the handlers that offer extra functionality to a request and
// that in success will forward the request to another handler
type HttpMiddleware interface {
	// ServeHTTP allows to handle an http request. The response will be serialized
	// by an HttpRouter
	ServeHTTP(req *http.Request) (interface{}, error)
}

// HttpMiddlewareFunc allows functions to implement the HttpMiddleware interface
type HttpMiddlewareFunc func(req *http.Request) (interface{}, error)

func (f HttpMiddlewareFunc) ServeHTTP(req *http.Request) (interface{}, error) {
	return f(req)
}

// HttpError holds the necessary information to return an error when
// using the http protocol
type HttpError struct {
	// Cause of the creation of this HttpError instance
	Cause errors.Err

	// StatusCode is the HTTP status code that defines the error cause
	StatusCode int
}

// Log implementation of log.Loggable
func (e HttpError) Log(fields log.Fields) {
	fields.Add("status_code", e.StatusCode)

	if e.Cause != nil {
		e.Cause.Log(fields)
	}
}

// Error is the implementation of go's error interface for Error
func (e HttpError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("http error with status code %d", e.StatusCode)
	}

	return fmt.Sprintf("%s with status code %d", e.Cause.Error(), e.StatusCode)
}

// MakeHttpError makes a new http error
func MakeHttpError(err errors.Err, statusCode int) *HttpError {
	return &HttpError{
		Cause:      err,
		StatusCode: statusCode,
	}
}

// HttpBadRequest returns an HTTP bad request error
func HttpBadRequest(err errors.Err) *HttpError {
	return MakeHttpError(err, http.StatusBadRequest)
}

// HttpNotFound returns an HTTP not found error
func HttpNotFound(err errors.Err) *HttpError {
	return MakeHttpError(err, http.StatusNotFound)
}

// HttpInternalServerError returns an HTTP internal server error
func HttpInternalServerError(err errors.Err) *HttpError {
	return MakeHttpError(err, http.StatusInternalServerError)
}

// mapHttpError maps the category of an error to the status code
// returned to the client
func mapHttpError(err errors.Err) *HttpError {
	switch err.ErrorCode().Category() {
	case errors.InputError:
		return MakeHttpError(err, http.StatusBadRequest)
	case errors.StateConflict:
		return MakeHttpError(err, http.StatusConflict)
	case errors.NotFound:
		return MakeHttpError(err, http.StatusNotFound)
	case errors.Unavailable:
		return MakeHttpError(err, http.StatusServiceUnavailable)
	default:
		return MakeHttpError(err, http.StatusInternalServerError)
	}
}

// toHttpError converts any error returned by a handler
func toHttpError(err error) *HttpError {
	switch err := err.(type) {
	case HttpError:
		return &err
	case *HttpError:
		return err
	case errors.Err:
		return mapHttpError(err)
	default:
		return HttpInternalServerError(errors.New(errors.ErrInternalError, err))
	}
}

// MethodHandlers keeps the handlers for each of the methods
type MethodHandlers map[string]HttpMiddleware

// Add a new handler to the set
func (h MethodHandlers) Add(method string, middleware HttpMiddleware) {
	h[method] = middleware
}

// httpReporter writes responses and errors to the client
type httpReporter struct {
	logger  log.Logger
	encoder Encoder
}

func (r httpReporter) reportSuccess(res http.ResponseWriter, req *http.Request, body interface{}) int {
	path := req.URL.EscapedPath()
	method := req.Method

	res.Header().Add(HttpHeaderTraceID, strconv.FormatInt(log.GetTraceID(req.Context()), 10))

	if body == nil {
		res.WriteHeader(http.StatusNoContent)
		r.logger.Info(req.Context(), "", log.MapFields{
			"path":        path,
			"method":      method,
			"call_type":   "HttpRequestHandleSuccess",
			"status_code": http.StatusNoContent,
		})
		return http.StatusNoContent
	}

	res.Header().Set("Content-Type", "application/json")
	if err := r.encoder.Encode(res, body); err != nil {
		res.WriteHeader(http.StatusInternalServerError)
		r.logger.Warn(req.Context(), "failed to encode response to response writer", log.MapFields{
			"path":        path,
			"method":      method,
			"call_type":   "HttpRequestHandleFailure",
			"status_code": http.StatusInternalServerError,
			"err":         err.Error(),
		})
		return http.StatusInternalServerError
	}

	r.logger.Info(req.Context(), "", log.MapFields{
		"path":        path,
		"method":      method,
		"call_type":   "HttpRequestHandleSuccess",
		"status_code": http.StatusOK,
	})
	return http.StatusOK
}

func (r httpReporter) reportError(res http.ResponseWriter, req *http.Request, err *HttpError) int {
	path := req.URL.EscapedPath()
	method := req.Method

	res.Header().Add(HttpHeaderTraceID, strconv.FormatInt(log.GetTraceID(req.Context()), 10))

	if err.Cause == nil {
		res.WriteHeader(err.StatusCode)
		r.logger.Info(req.Context(), "", log.MapFields{
			"path":      path,
			"method":    method,
			"call_type": "HttpRequestHandleFailure",
		}, err)
		return err.StatusCode
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(err.StatusCode)
	if eerr := r.encoder.Encode(res, NewError(err.Cause.ErrorCode())); eerr != nil {
		r.logger.Debug(req.Context(), "failed to encode error response to response writer", log.MapFields{
			"path":      path,
			"method":    method,
			"call_type": "HttpRequestHandleFailure",
		}, err)
		return err.StatusCode
	}

	r.logger.Info(req.Context(), "", log.MapFields{
		"path":      path,
		"method":    method,
		"call_type": "HttpRequestHandleFailure",
	}, err)
	return err.StatusCode
}

// HttpRoute multiplexes the handling of a request to the handler
// that expects a particular method
type HttpRoute struct {
	path          string
	reporter      httpReporter
	handlers      map[string]HttpMiddleware
	preProcessors []HttpPreProcessor
	metrics       *metrics.ServiceMetrics
}

// HttpRouteProps are the required properties to create
// a new HttpRoute instance
type HttpRouteProps struct {
	Path          string
	Logger        log.Logger
	Encoder       Encoder
	Handlers      MethodHandlers
	PreProcessors []HttpPreProcessor

	// Metrics instruments the requests handled by the route. It
	// may be nil
	Metrics *metrics.ServiceMetrics
}

// NewHttpRoute creates a new route instance
func NewHttpRoute(props HttpRouteProps) *HttpRoute {
	return &HttpRoute{
		path:          props.Path,
		reporter:      httpReporter{logger: props.Logger, encoder: props.Encoder},
		handlers:      props.Handlers,
		preProcessors: props.PreProcessors,
		metrics:       props.Metrics,
	}
}

// HasHandler returns true if the route has a handler that
// would handle the provided method
func (h *HttpRoute) HasHandler(method string) bool {
	_, ok := h.handlers[method]
	return ok
}

// ServeHTTP is the implementation of http.Handler for HttpRoute
func (h *HttpRoute) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	endpoint := req.Method + " " + h.path
	if h.metrics != nil {
		defer h.metrics.RequestTimer(endpoint).ObserveDuration()
	}

	var ok bool
	for _, preProcessor := range h.preProcessors {
		ok, req = preProcessor.ServeHTTP(res, req)
		if !ok {
			h.observe(endpoint, statusPreProcessor, "")
			return
		}
	}

	status, cause := h.serveHTTP(res, req)
	h.observe(endpoint, strconv.Itoa(status), cause)
}

func (h *HttpRoute) observe(endpoint, status, cause string) {
	if h.metrics == nil {
		return
	}

	h.metrics.RequestCounter(endpoint, status, cause).Inc()
}

func (h *HttpRoute) serveHTTP(res http.ResponseWriter, req *http.Request) (int, string) {
	handler, ok := h.handlers[req.Method]
	if !ok {
		return h.reporter.reportError(res, req, &HttpError{StatusCode: http.StatusMethodNotAllowed}), ""
	}

	v, err := handler.ServeHTTP(req)
	if err != nil {
		httpErr := toHttpError(err)
		cause := ""
		if httpErr.Cause != nil {
			cause = metrics.Cause(httpErr.Cause)
		}
		return h.reporter.reportError(res, req, httpErr), cause
	}

	return h.reporter.reportSuccess(res, req, v), ""
}

// HttpRouter multiplexes the handling of server request amongst the different
// handlers
type HttpRouter struct {
	reporter httpReporter
	mux      map[string]*HttpRoute
	logger   log.Logger
}

// HasRoute returns true if the router has a route to
// handle a request to the path
func (h *HttpRouter) HasRoute(path string) bool {
	_, ok := h.mux[path]
	return ok
}

// HasHandler returns true if the router has a handle to
// handle a request to the path and method
func (h *HttpRouter) HasHandler(path, method string) bool {
	route, ok := h.mux[path]
	if !ok {
		return false
	}

	return route.HasHandler(method)
}

// ServeHTTP is the implementation of http.Handler for HttpRouter
func (h *HttpRouter) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	path := req.URL.EscapedPath()
	method := req.Method
	traceID := ParseTraceID(req.Header.Get(HttpHeaderTraceID))
	req = req.WithContext(log.PutTraceID(req.Context(), traceID))

	h.logger.Debug(req.Context(), "", log.MapFields{
		"path":      path,
		"method":    method,
		"call_type": "HttpRequestHandleAttempt",
	})

	defer func() {
		if r := recover(); r != nil {
			var err error
			stacktrace := debug.Stack()

			switch x := r.(type) {
			case string:
				err = stderr.New(x)
			case error:
				err = x
			default:
				err = fmt.Errorf("unknown panic %+v", r)
			}

			h.logger.Warn(req.Context(), "unexpected panic caught", log.MapFields{
				"path":       path,
				"method":     method,
				"call_type":  "HttpRequestHandleFailure",
				"err":        err.Error(),
				"stacktrace": string(stacktrace),
			})

			// the panic is not exposed to the client
			h.reporter.reportError(res, req, HttpInternalServerError(
				errors.New(errors.ErrInternalError, nil)))
		}
	}()

	route, ok := h.mux[path]
	if !ok {
		h.reporter.reportError(res, req, HttpNotFound(errors.New(errors.ErrRouteNotFound, nil)))
		return
	}

	route.ServeHTTP(res, req)
}

// HttpCorsPreProcessorProps properties used to define the behaviour
// of the CORS implementation
type HttpCorsPreProcessorProps struct {
	// Enabled if true the HttpCorsHandler will verify requests, if false
	// the handler will just pass on a request to the next middleware
	Enabled bool

	// AllowedOrigins is a list of origins a cross-domain request can be executed from.
	// If the special "*" value is present in the list, all origins will be allowed.
	// Default value is ["*"]
	AllowedOrigins []string

	// AllowedMethods is a list of methods the client is allowed to use with
	// cross-domain requests. Default value is simple methods (HEAD, GET and POST).
	AllowedMethods []string

	// AllowedHeaders is list of non simple headers the client is allowed to use with
	// cross-domain requests.
	AllowedHeaders []string

	// ExposedHeaders indicates which headers are safe to expose to the API of a CORS
	// API specification
	ExposedHeaders []string

	// MaxAge indicates how long (in seconds) the results of a preflight request
	// can be cached
	MaxAge int
}

// HttpCorsPreProcessor handles CORS https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
// for requests
type HttpCorsPreProcessor struct {
	cors    *cors.Cors
	enabled bool
}

// NewHttpCorsPreProcessor creates a new instance of a Cors Http PreProcessor
func NewHttpCorsPreProcessor(props HttpCorsPreProcessorProps) *HttpCorsPreProcessor {
	c := cors.New(cors.Options{
		AllowedOrigins:     props.AllowedOrigins,
		AllowedMethods:     props.AllowedMethods,
		AllowedHeaders:     props.AllowedHeaders,
		ExposedHeaders:     props.ExposedHeaders,
		MaxAge:             props.MaxAge,
		AllowCredentials:   false,
		OptionsPassthrough: false,
		Debug:              false,
	})

	return &HttpCorsPreProcessor{
		cors:    c,
		enabled: props.Enabled,
	}
}

// ServeHTTP is the implementation of HttpPreProcessor for HttpCorsPreProcessor
func (h *HttpCorsPreProcessor) ServeHTTP(w http.ResponseWriter, req *http.Request) (bool, *http.Request) {
	if !h.enabled {
		return true, req
	}

	var (
		next    bool
		nextReq *http.Request
	)

	h.cors.ServeHTTP(w, req, func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodOptions {
			// preflight requests are answered directly
			w.WriteHeader(http.StatusOK)
			next = false
			return
		}

		next = true
		nextReq = req
	})

	return next, nextReq
}

// HttpJsonHandler handles requests that expect a body in the JSON format,
// handles the body and executes the final handler with the expected type
type HttpJsonHandler struct {
	limit   uint
	decoder JsonDecoder
	handler Handler
	logger  log.Logger
	factory EntityFactory
}

type HttpJsonHandlerProperties struct {
	// Limit is the maximum number of bytes an Http body can have. Bodies
	// with a higher limit will fail to deserialize and be rejected
	Limit uint

	// Handler is the rpc handler that will be used to handle the request
	Handler Handler

	// Logger
	Logger log.Logger

	// Factory for creating new instances of objects to which the Http body
	// will be deserialized. Those instances will be passed to the handler
	Factory EntityFactory
}

// NewHttpJsonHandler creates a new instance of an rpc handler
// that deserializes json objects into Go objects
func NewHttpJsonHandler(properties HttpJsonHandlerProperties) *HttpJsonHandler {
	limit := properties.Limit
	if limit == 0 {
		limit = 1 << 14 // 16 KB
	}

	if properties.Handler == nil {
		panic("handler must be set")
	}

	if properties.Logger == nil {
		panic("logger must be set")
	}

	if properties.Factory == nil {
		panic("factory must be set")
	}

	return &HttpJsonHandler{
		limit:   limit,
		decoder: JsonDecoder{},
		handler: properties.Handler,
		logger:  properties.Logger.ForClass("http", "HttpJsonHandler"),
		factory: properties.Factory,
	}
}

func isJsonContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// ServeHTTP is the implementation of HttpMiddleware for HttpJsonHandler
func (h *HttpJsonHandler) ServeHTTP(req *http.Request) (interface{}, error) {
	path := req.URL.EscapedPath()

	if req.ContentLength < 0 {
		h.logger.Debug(req.Context(), "Content-length header missing from request", log.MapFields{
			"path":      path,
			"method":    req.Method,
			"call_type": "HttpJsonRequestHandleFailure",
		})
		return nil, errors.New(errors.ErrHttpContentLengthMissing, nil)
	}

	if uint64(req.ContentLength) > uint64(h.limit) {
		h.logger.Debug(req.Context(), "Content-length exceeds request limit", log.MapFields{
			"path":           path,
			"method":         req.Method,
			"content_length": req.ContentLength,
			"limit":          h.limit,
			"call_type":      "HttpJsonRequestHandleFailure",
		})
		return nil, errors.New(errors.ErrHttpContentLengthLimit, nil)
	}

	if req.ContentLength > 0 && !isJsonContentType(req.Header.Get("Content-Type")) {
		h.logger.Debug(req.Context(), "Content-type is not for json", log.MapFields{
			"path":           path,
			"method":         req.Method,
			"content_length": req.ContentLength,
			"call_type":      "HttpJsonRequestHandleFailure",
		})
		return nil, errors.New(errors.ErrHttpContentTypeApplicationJson, nil)
	}

	body := h.factory.Create()
	if body == nil && req.ContentLength > 0 {
		h.logger.Debug(req.Context(), "received request body for handler that does not expect a request body", log.MapFields{
			"path":           path,
			"method":         req.Method,
			"content_length": req.ContentLength,
			"call_type":      "HttpJsonRequestHandleFailure",
		})
		return nil, errors.New(errors.ErrDeserializeJSON, nil)
	}

	if body != nil && req.ContentLength > 0 {
		if err := h.decoder.DecodeWithLimit(req.Body, body, ReadLimitProps{
			Limit:        req.ContentLength,
			FailOnExceed: true,
		}); err != nil {
			h.logger.Debug(req.Context(), "failed to decode json", log.MapFields{
				"path":           path,
				"method":         req.Method,
				"content_length": req.ContentLength,
				"call_type":      "HttpJsonRequestHandleFailure",
				"err":            err.Error(),
			})
			return nil, errors.New(errors.ErrDeserializeJSON, err)
		}
	}

	return h.handler.Handle(req.Context(), body)
}

// HttpHandlerFactory converts an rpc Handler into HttpMiddleware
// that can be plugged into a router
type HttpHandlerFactory interface {
	Make(factory EntityFactory, handler Handler) HttpMiddleware
}

// HttpHandlerFactoryFunc to allow functions to act as an HttpHandlerFactory
type HttpHandlerFactoryFunc func(factory EntityFactory, handler Handler) HttpMiddleware

// Make is the implementation of HttpHandlerFactory for HttpHandlerFactoryFunc
func (f HttpHandlerFactoryFunc) Make(factory EntityFactory, handler Handler) HttpMiddleware {
	return f(factory, handler)
}

// NewHttpJsonHandlerFactory returns the factory that wraps every
// handler in an HttpJsonHandler with the provided body limit
func NewHttpJsonHandlerFactory(limit uint, logger log.Logger) HttpHandlerFactory {
	return HttpHandlerFactoryFunc(func(factory EntityFactory, handler Handler) HttpMiddleware {
		return NewHttpJsonHandler(HttpJsonHandlerProperties{
			Limit:   limit,
			Handler: handler,
			Logger:  logger,
			Factory: factory,
		})
	})
}

// HttpBinder is the binder for http. It is also the only mechanism to build
// HttpRouter's. This is done so that an HttpRouter cannot be modified
// after it has been created
type HttpBinder struct {
	handlers      map[string]MethodHandlers
	preProcessors []HttpPreProcessor
	encoder       Encoder
	logger        log.Logger
	factory       HttpHandlerFactory
	metrics       *metrics.ServiceMetrics
}

// Bind is the implementation of HandlerBinder for HttpBinder
func (b *HttpBinder) Bind(method string, uri string, handler Handler, factory EntityFactory) {
	route, ok := b.handlers[uri]
	if !ok {
		route = make(MethodHandlers)
		b.handlers[uri] = route
	}

	route.Add(method, b.factory.Make(factory, handler))
}

// AddPreProcessor adds a pre processor that runs before every
// route's handlers
func (b *HttpBinder) AddPreProcessor(preProcessor HttpPreProcessor) {
	b.preProcessors = append(b.preProcessors, preProcessor)
}

// Build creates a new HttpRouter and clears the handler map of the
// HttpBinder, so if new instances of HttpRouters need to be build
// Bind needs to be used again
func (b *HttpBinder) Build() *HttpRouter {
	mux := make(map[string]*HttpRoute)

	for path, handlers := range b.handlers {
		mux[path] = NewHttpRoute(HttpRouteProps{
			Path:          path,
			Logger:        b.logger,
			Encoder:       b.encoder,
			Handlers:      handlers,
			PreProcessors: b.preProcessors,
			Metrics:       b.metrics,
		})
	}

	// the router cannot be modified after it is built
	b.handlers = make(map[string]MethodHandlers)

	logger := b.logger.ForClass("http", "router")
	return &HttpRouter{
		reporter: httpReporter{logger: logger, encoder: b.encoder},
		logger:   logger,
		mux:      mux,
	}
}

// HttpBinderProperties are the properties used to create
// a new instance of an HttpBinder
type HttpBinderProperties struct {
	Encoder        Encoder
	Logger         log.Logger
	HandlerFactory HttpHandlerFactory

	// Metrics is optional
	Metrics *metrics.ServiceMetrics
}

// NewHttpBinder creates a new instance of the HttpBinder. It will
// panic in case there are errors in the construction of the binder
func NewHttpBinder(properties HttpBinderProperties) *HttpBinder {
	if properties.Encoder == nil {
		panic("Encoder must be set")
	}

	if properties.Logger == nil {
		panic("Logger must be set")
	}

	if properties.HandlerFactory == nil {
		panic("HandlerFactory must be set")
	}

	return &HttpBinder{
		handlers: make(map[string]MethodHandlers),
		encoder:  properties.Encoder,
		logger:   properties.Logger,
		factory:  properties.HandlerFactory,
		metrics:  properties.Metrics,
	}
}
