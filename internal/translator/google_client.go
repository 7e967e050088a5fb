package translator

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// googleClient uses the Cloud Translation v2 API. Unlike the LLM providers it
// needs language codes, so display names are resolved through LookupLanguage.
type googleClient struct {
	client *translate.Client
}

func newGoogleClient(ctx context.Context, cfg Config) (*googleClient, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Credentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}
	return &googleClient{client: client}, nil
}

func (c *googleClient) Name() string {
	return "Google Translate"
}

func (c *googleClient) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	target, source, err := googleTags(req)
	if err != nil {
		return Result{}, newError(c.Name(), 0, nil, "%v", err)
	}
	opts := &translate.Options{Format: translate.Text}
	if source != language.Und {
		opts.Source = source
	}
	translations, err := c.client.Translate(ctx, []string{strings.TrimSpace(req.Text)}, target, opts)
	if err != nil {
		return Result{}, googleError(c.Name(), err)
	}
	if len(translations) == 0 {
		return Result{}, newError(c.Name(), 0, nil, "no translation returned")
	}
	return finish(c.Name(), req, html.UnescapeString(translations[0].Text))
}

// googleError keeps the HTTP status of API failures so auth and request
// errors are not retried.
func googleError(provider string, err error) *Error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = "translation failed"
		}
		return newError(provider, apiErr.Code, err, "%s", msg)
	}
	return newError(provider, 0, err, "translation failed")
}

// googleTags resolves the request languages. An empty or "auto" source yields
// language.Und so the API detects it.
func googleTags(req Request) (target, source language.Tag, err error) {
	t, err := LookupLanguage(req.TargetLang)
	if err != nil {
		return language.Und, language.Und, err
	}
	src := strings.TrimSpace(req.SourceLang)
	if src == "" || strings.EqualFold(src, "auto") {
		return t.Tag, language.Und, nil
	}
	s, err := LookupLanguage(src)
	if err != nil {
		return language.Und, language.Und, err
	}
	return t.Tag, s.Tag, nil
}
