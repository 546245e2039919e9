package tools

import (
	"context"

	"github.com/sirupsen/logrus"
)

func (ts *Toolset) getCodebaseSize(ctx context.Context, p GetCodebaseSizeParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	rep, err := ts.sizer.Generate(ctx, abs)
	if err != nil {
		return "", err
	}
	return rep.Content, nil
}

func (ts *Toolset) getCodebase(ctx context.Context, p GetCodebaseParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	page := 1
	if p.Page != nil {
		page = *p.Page
	}

	res, err := ts.digester.Generate(ctx, abs, page, 0)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{
		"tool":  "get_codebase",
		"page":  res.CurrentPage,
		"pages": res.TotalPages,
		"more":  res.HasMorePages,
	}).Info("served digest page")
	return res.Content, nil
}
