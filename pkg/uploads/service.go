package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const MIMEApplicationPDF = "application/pdf"

var (
	ErrNotConfigured = errcodes.ServiceUnavailable("File uploads are not configured")
	ErrUploadFailed  = errcodes.UpstreamFailure("Failed to upload file")
	ErrNotPDF        = errcodes.UnsupportedMediaType()
)

// Result is what the upload endpoint hands back for a stored file.
type Result struct {
	SecureURL string `json:"secure_url"`
}

type upstreamError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Service sends documents to the hosted upload endpoint using an unsigned
// upload preset.
type Service struct {
	endpoint string
	preset   string
	maxBytes int64
	enabled  bool
	client   *http.Client
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		endpoint: cfg.UploadEndpoint(),
		preset:   cfg.CloudinaryUploadPreset,
		maxBytes: cfg.UploadMaxBytes,
		enabled:  cfg.UploadsEnabled(),
		client: &http.Client{
			Timeout: cfg.UploadTimeout,
		},
	}
}

func (svc *Service) MaxBytes() int64 {
	return svc.maxBytes
}

// Check reads the whole document and makes sure it's a PDF within the size
// limit. The content is sniffed, so the declared type and extension don't
// matter.
func (svc *Service) Check(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, svc.maxBytes+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if int64(len(data)) > svc.maxBytes {
		return nil, errcodes.PayloadTooLarge(svc.maxBytes)
	}
	if !mimetype.Detect(data).Is(MIMEApplicationPDF) {
		return nil, ErrNotPDF
	}
	return data, nil
}

// Upload stores a document and returns its public URL. It makes exactly one
// attempt.
func (svc *Service) Upload(ctx context.Context, filename string, data []byte) (*Result, error) {
	log := logger.FromContext(ctx)

	if !svc.enabled {
		return nil, ErrNotConfigured
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("upload_preset", svc.preset); err != nil {
		return nil, errors.WithStack(err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := mw.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.endpoint, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := svc.client.Do(req)
	if err != nil {
		log.Err(err).Error("upload request failed", logger.Data{"filename": filename})
		return nil, ErrUploadFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ue upstreamError
		_ = json.NewDecoder(resp.Body).Decode(&ue)
		log.Error("upload rejected", logger.Data{
			"filename": filename,
			"status":   resp.StatusCode,
			"message":  ue.Error.Message,
		})
		return nil, ErrUploadFailed
	}

	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		log.Err(err).Error("upload response is not valid json", logger.Data{"filename": filename})
		return nil, ErrUploadFailed
	}
	if result.SecureURL == "" {
		log.Error("upload response has no secure_url", logger.Data{"filename": filename})
		return nil, ErrUploadFailed
	}

	log.Info("document uploaded", logger.Data{"filename": filename, "url": result.SecureURL})

	return result, nil
}
