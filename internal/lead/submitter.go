// Package lead submits contact form leads to the external spreadsheet
// endpoint and reports conversions to the data layer.
package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/betavietvn/leadtrack/internal/config"
	"github.com/betavietvn/leadtrack/internal/gtm"
	"github.com/betavietvn/leadtrack/internal/logger"
	"github.com/betavietvn/leadtrack/pkg/validator"
)

// Outcome classifies what the endpoint told us. Unknown means the request
// was sent opaquely and no response could be read.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeRejected
	OutcomeUnknown
)

// Result is what the caller shows the visitor.
type Result struct {
	Outcome Outcome
	Message string
}

const (
	successMessage = "Gửi thông tin thành công! Chúng tôi sẽ liên hệ với bạn trong thời gian sớm nhất."
	errorMessage   = "Có lỗi xảy ra khi gửi thông tin. Vui lòng thử lại sau."
)

// Form is one lead submission. Honeypot is the hidden field real visitors
// never fill.
type Form struct {
	Name     string `validate:"required,min=2"`
	Phone    string `validate:"required,vnphone"`
	Address  string
	Area     string
	Message  string
	Honeypot string
	Source   string
	FormType string
}

// Submitter posts leads to the configured endpoint.
type Submitter struct {
	client *http.Client
	cfg    config.LeadConfig
	layer  *gtm.DataLayer
}

func NewSubmitter(client *http.Client, cfg config.LeadConfig, layer *gtm.DataLayer) *Submitter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Submitter{
		client: client,
		cfg:    cfg,
		layer:  layer,
	}
}

// Submit validates and delivers one lead.
//
// A filled honeypot gets a success result without any network traffic, so
// the bot that filled it learns nothing. Validation failures reject locally.
// In CORS mode the endpoint's JSON verdict decides the outcome; in opaque
// mode the response is unreadable and the outcome is Unknown.
func (s *Submitter) Submit(ctx context.Context, form Form) (Result, error) {
	if form.Honeypot != "" {
		logger.Get().Info("honeypot triggered, dropping lead silently")
		return Result{Outcome: OutcomeAccepted, Message: successMessage}, nil
	}

	if errs := validator.Validate(form); len(errs) > 0 {
		return Result{Outcome: OutcomeRejected, Message: errs[0].Message}, nil
	}

	body, contentType, err := s.encode(form)
	if err != nil {
		return Result{Outcome: OutcomeRejected, Message: errorMessage}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, body)
	if err != nil {
		return Result{Outcome: OutcomeRejected, Message: errorMessage}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Outcome: OutcomeRejected, Message: errorMessage}, fmt.Errorf("lead submission failed: %w", err)
	}
	defer resp.Body.Close()

	if !s.cfg.CORSEnabled {
		io.Copy(io.Discard, resp.Body)
		s.reportConversion(form.Phone)
		return Result{Outcome: OutcomeUnknown, Message: successMessage}, nil
	}

	var verdict struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return Result{Outcome: OutcomeRejected, Message: errorMessage}, fmt.Errorf("failed to decode lead response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && verdict.Success {
		s.reportConversion(form.Phone)
		return Result{Outcome: OutcomeAccepted, Message: successMessage}, nil
	}

	logger.Get().Warn("lead endpoint rejected submission",
		slog.Int("status", resp.StatusCode),
		slog.String("message", verdict.Message),
	)
	return Result{Outcome: OutcomeRejected, Message: errorMessage}, nil
}

func (s *Submitter) encode(form Form) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":          form.Name,
		"phone":         form.Phone,
		"address":       form.Address,
		"area":          form.Area,
		"message":       form.Message,
		"timestamp":     strconv.FormatInt(time.Now().UnixMilli(), 10),
		"securityToken": s.cfg.SecurityToken,
		"source":        form.Source,
		"formType":      form.FormType,
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to encode field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (s *Submitter) reportConversion(phone string) {
	if s.layer != nil {
		s.layer.PushFormSubmit(phone)
	}
}
