package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, b Backends, logger *log.Logger) {
	e.JSONSerializer = SonicSerializer{}

	e.GET("/health", health())

	e.POST("/api/upload/base64", uploadBase64(b.Images, logger))
	e.POST("/api/upload/multipart", uploadMultipart(b.Images, logger))
	e.GET("/api/images", listImages(b.Images, logger))

	e.POST("/api/tasks", postTask(b, logger))
	e.GET("/api/tasks", listTasks(b.Tasks, logger))
	e.GET("/api/tasks/:id", getTask(b.Tasks, logger))
	e.DELETE("/api/tasks/:id", deleteTask(b.Tasks, logger))

	e.GET("/api/queue/messages", receiveMessages(b.Queue, logger))
	e.DELETE("/api/queue/messages/:id", ackMessage(b.Queue, logger))

	e.POST("/api/notifications", postNotification(b.Topic, logger))
}

func health() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "OK", Message: "backend is running"})
	}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// backendFailure logs err and answers 500 with the raw error text.
func backendFailure(c echo.Context, logger *log.Logger, msg string, err error) error {
	logger.WithError(err).WithField("route", c.Path()).Error(msg)
	return fail(c, http.StatusInternalServerError, err.Error())
}

var errBodyTooLarge = errors.New("request body too large")

// decodeJSON reads a JSON request body into v. An empty body leaves v untouched.
func decodeJSON(c echo.Context, v any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxJSONBodySize+1))
	if err != nil {
		return err
	}
	if len(body) > maxJSONBodySize {
		return errBodyTooLarge
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return sonic.ConfigStd.Unmarshal(body, v)
}

// invalidBody answers a request whose JSON body could not be decoded.
func invalidBody(c echo.Context, err error) error {
	if errors.Is(err, errBodyTooLarge) {
		return fail(c, http.StatusRequestEntityTooLarge, err.Error())
	}
	return fail(c, http.StatusBadRequest, "invalid body")
}
