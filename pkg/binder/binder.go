package binder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/htmlutil"
	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder is a custom struct that implements the Echo Binder interface. It binds
// to a struct, uses mold to clean up the params, and validator to validate
// them.
type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

// New initializes a new Binder instance with the appropriate validation
// functions registered.
func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")

	conform := modifiers.New()
	conform.Register("strip_html", stripHTMLModifier)

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("httpurl", httpURLValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation("handle", handleValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{queryDecoder, formDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	log := logger.FromEchoContext(c)

	disallowEmptyBody := true
	if disallow, ok := c.Get("disallow_empty_body").(bool); ok {
		disallowEmptyBody = disallow
	}

	if req.ContentLength != 0 {
		ctype := req.Header.Get(echo.HeaderContentType)
		switch {
		case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
			dec := json.NewDecoder(req.Body)
			disallowUnknownFields := true
			if disallow, ok := c.Get("disallow_unknown_fields").(bool); ok {
				disallowUnknownFields = disallow
			}
			if disallowUnknownFields {
				dec.DisallowUnknownFields()
			}
			defer req.Body.Close()
			if err := dec.Decode(i); err != nil {
				// return better error message when there are unknown fields
				if matches := unknownFieldsRE.FindAllStringSubmatch(err.Error(), -1); len(matches) > 0 && len(matches[0]) > 1 {
					return errcodes.UnknownParameter(matches[0][1])
				}

				// return better error message on type errors
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &typeErr) {
					return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
				}

				log.Err(err).Warn("unknown json decode error")

				return errcodes.MalformedPayload()
			}
		case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
			params, err := c.FormParams()
			if err != nil {
				return errcodes.MalformedPayload()
			}
			if err := b.decodeQuery(i, params, b.formDecoder); err != nil {
				return err
			}
		case strings.HasPrefix(ctype, echo.MIMEMultipartForm):
			form, err := c.MultipartForm()
			if err != nil {
				return errcodes.MalformedPayload()
			}
			if err := b.decodeQuery(i, form.Value, b.formDecoder); err != nil {
				return err
			}
			// Files are only bound into a FormFiles field.
			field := reflect.ValueOf(i).Elem().FieldByName("FormFiles")
			if field.IsValid() && field.CanSet() && len(form.File) > 0 {
				field.Set(reflect.MakeMap(field.Type()))
				for key, headers := range form.File {
					// only pull the first file
					if len(headers) > 0 {
						field.SetMapIndex(reflect.ValueOf(key), reflect.ValueOf(headers[0]))
					}
				}
			}
		default:
			return errcodes.UnsupportedMediaType()
		}
	} else {
		if req.Method == http.MethodGet || req.Method == http.MethodDelete {
			if err := b.decodeQuery(i, c.QueryParams(), b.queryDecoder); err != nil {
				return err
			}
		} else if disallowEmptyBody {
			return errcodes.EmptyRequestBody()
		}
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	return b.Validate(i)
}

// Validate runs the validate tags of i and reports every failing field.
func (b *Binder) Validate(i interface{}) error {
	err := b.validate.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errors.WithStack(err)
	}

	fields := make(map[string][]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = append(fields[fe.Field()], formatValidationError(fe))
	}
	return errcodes.FieldValidationError(formatValidationError(errs[0]), fields)
}

func (b *Binder) decodeQuery(i interface{}, params url.Values, decoder *schema.Decoder) error {
	if err := decoder.Decode(i, params); err != nil {
		var errs schema.MultiError
		if !errors.As(err, &errs) {
			return errors.WithStack(err)
		}

		// MultiError is a map, so pick the first key in a stable order.
		var first error
		firstKey := ""
		for k, e := range errs {
			if first == nil || k < firstKey {
				first, firstKey = e, k
			}
		}

		var convErr schema.ConversionError
		if errors.As(first, &convErr) {
			return errcodes.ValidationTypeError(formatSchemaConversionError(convErr))
		}
		var unknownErr schema.UnknownKeyError
		if errors.As(first, &unknownErr) {
			return errcodes.UnknownParameter(unknownErr.Key)
		}

		return errors.WithStack(first)
	}
	return nil
}

func stripHTMLModifier(_ context.Context, fl mold.FieldLevel) error {
	if fl.Field().Kind() == reflect.String {
		fl.Field().SetString(htmlutil.StripTags(fl.Field().String()))
	}
	return nil
}
