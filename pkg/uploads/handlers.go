package uploads

import (
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const formField = "file"

type handler struct {
	uploadService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	fh, err := c.FormFile(formField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return errcodes.FieldValidationError("file is required", map[string][]string{
				formField: {"file is required"},
			})
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return errcodes.UnsupportedMediaType()
		}
		return errcodes.MalformedPayload()
	}
	if fh.Size > h.uploadService.MaxBytes() {
		return errcodes.PayloadTooLarge(h.uploadService.MaxBytes())
	}

	f, err := fh.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	data, err := h.uploadService.Check(f)
	if err != nil {
		return err
	}

	result, err := h.uploadService.Upload(ctx, fh.Filename, data)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}
