package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const imagePrefix = "tasks/"

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

func uploadBase64(store ImageStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req base64UploadRequest
		if err := decodeJSON(c, &req); err != nil {
			return invalidBody(c, err)
		}
		if req.Image == "" {
			return fail(c, http.StatusBadRequest, "image not provided")
		}
		data, err := base64.StdEncoding.DecodeString(dataURLPrefix.ReplaceAllString(req.Image, ""))
		if err != nil {
			return fail(c, http.StatusBadRequest, "image is not valid base64")
		}
		return storeImage(c, store, logger, req.TaskID, data, "image/jpeg")
	}
}

func uploadMultipart(store ImageStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return fail(c, http.StatusBadRequest, "no file uploaded")
		}
		if fh.Size > maxUploadFileSize {
			return fail(c, http.StatusRequestEntityTooLarge, "file too large")
		}
		f, err := fh.Open()
		if err != nil {
			return backendFailure(c, logger, "open upload failed", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadFileSize+1))
		if err != nil {
			return backendFailure(c, logger, "read upload failed", err)
		}
		if len(data) > maxUploadFileSize {
			return fail(c, http.StatusRequestEntityTooLarge, "file too large")
		}
		contentType := fh.Header.Get(echo.HeaderContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return storeImage(c, store, logger, c.FormValue("taskId"), data, contentType)
	}
}

func storeImage(c echo.Context, store ImageStore, logger *log.Logger, taskID string, data []byte, contentType string) error {
	key := imageKey(taskID, time.Now())
	url, err := store.Upload(c.Request().Context(), key, data, contentType)
	if err != nil {
		return backendFailure(c, logger, "image upload failed", err)
	}
	logger.WithField("key", key).Info("image stored")
	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		ImageURL: url,
		ImageKey: key,
		Bucket:   store.Container(),
	})
}

// imageKey names a photo after its task, or a fresh id when the task is unknown.
func imageKey(taskID string, now time.Time) string {
	if taskID == "" {
		taskID = uuid.NewString()
	}
	return fmt.Sprintf("%s%s_%d.jpg", imagePrefix, taskID, now.UnixMilli())
}

func listImages(store ImageStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		images, err := store.List(c.Request().Context(), imagePrefix)
		if err != nil {
			return backendFailure(c, logger, "list images failed", err)
		}
		return c.JSON(http.StatusOK, imagesResponse{Success: true, Images: images, Count: len(images)})
	}
}
