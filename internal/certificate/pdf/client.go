// Package pdf is the client for the external PDF rendering collaborator.
// Rendering internals are a black box; this service only decides how many
// documents to produce and with which bindings.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"eventops/internal/platform/config"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
)

// Request is one render instruction. AbstractID is nil for direct plans.
type Request struct {
	EventID        domain.EventID        `json:"event_id"`
	TemplateID     domain.TemplateID     `json:"template_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	AbstractID     *domain.AbstractID    `json:"abstract_id,omitempty"`
	WithBackground bool                  `json:"with_background"`
	// Fields carries the resolved field values the renderer should print.
	Fields map[string]string `json:"fields,omitempty"`
}

// Document is a rendered PDF stream. The caller owns Content and must close it.
type Document struct {
	Filename    string
	ContentType string
	Content     io.ReadCloser
}

// Generator renders one document per call. Calls are independent and may run
// concurrently; there is no shared mutable state between them.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Document, error)
}

// Client is the HTTP implementation of Generator.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.PDFConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (*Document, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "pdf service unreachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, dErrors.New(dErrors.CodeGenerationFailed,
			fmt.Sprintf("pdf service returned %d: %s", resp.StatusCode, detail))
	}

	filename := filenameFromHeader(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = SuggestedFilename(req.RegistrationID, req.TemplateID, req.AbstractID)
	}

	return &Document{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     resp.Body,
	}, nil
}

// SuggestedFilename derives a stable download name for a rendered document.
func SuggestedFilename(registrationID domain.RegistrationID, templateID domain.TemplateID, abstractID *domain.AbstractID) string {
	name := "certificate-" + registrationID.String() + "-" + templateID.String()
	if abstractID != nil {
		name += "-" + abstractID.String()
	}
	return name + ".pdf"
}

func filenameFromHeader(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
