package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/lingonotes/internal/export"
	"github.com/csheth/lingonotes/internal/session"
)

type translationResultMsg struct {
	outcome session.Outcome
}

type exportResultMsg struct {
	format export.Format
	path   string
	err    error
}

type copyResultMsg struct {
	text string
	err  error
}

func translateJob(s *session.Controller, req session.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out := s.Translate(ctx, req)
		return translationResultMsg{outcome: out}, out.Err
	}
}

func exportJob(format export.Format, doc export.Document, dir string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		artifact, err := export.Render(format, doc)
		if err != nil {
			return exportResultMsg{format: format, err: err}, err
		}
		path, err := export.Write(dir, artifact)
		return exportResultMsg{format: format, path: path, err: err}, err
	}
}

func copyJob(write func(string) error, text string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := write(text)
		return copyResultMsg{text: text, err: err}, err
	}
}
