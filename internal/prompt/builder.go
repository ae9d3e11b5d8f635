// Package prompt composes classification requests from a taxonomy and a
// transaction record.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultVendor is the counterparty token used by the memory rule.
const DefaultVendor = "Adidas"

// Options configures a Builder.
type Options struct {
	// OverrideVendor is matched against COUNTERPARTY_NAME by the model when a
	// first custom category is supplied.
	OverrideVendor string
}

// Builder renders classification requests from embedded templates.
type Builder struct {
	templates map[string]*template.Template
	vendor    string
}

type systemData struct {
	PrimaryLabel string
	BackupLabel  string
	Separator    string
	Categories   []string
	Custom       []string
}

type memoryData struct {
	Vendor   string
	Category string
}

type userData struct {
	CounterpartyName string
	MCCCode          string
	OperationType    string
	AvgSpendEUR      string
}

// NewBuilder parses the embedded templates.
func NewBuilder(opts Options) (*Builder, error) {
	vendor := opts.OverrideVendor
	if vendor == "" {
		vendor = DefaultVendor
	}

	b := &Builder{
		templates: make(map[string]*template.Template),
		vendor:    vendor,
	}

	funcMap := template.FuncMap{
		"list": formatList,
	}

	for _, name := range []string{"system", "memory", "user"} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(name + ".tmpl").Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		b.templates[name] = tmpl
	}

	return b, nil
}

// Build composes the request for rec. Every record field must be present.
func (b *Builder) Build(tax *model.Taxonomy, rec model.TransactionRecord) (model.ClassificationRequest, error) {
	if missing := rec.Missing(); len(missing) > 0 {
		return model.ClassificationRequest{}, fmt.Errorf("%w: record is missing %s",
			common.ErrPromptBuild, strings.Join(missing, ", "))
	}

	return b.compose(tax, userData{
		CounterpartyName: rec.CounterpartyName,
		MCCCode:          rec.MCCCode,
		OperationType:    rec.OperationType,
		AvgSpendEUR:      rec.FormatSpend(),
	})
}

// Raw returns the request with field placeholders instead of record values.
func (b *Builder) Raw(tax *model.Taxonomy) (model.ClassificationRequest, error) {
	return b.compose(tax, userData{
		CounterpartyName: "{counterparty_name}",
		MCCCode:          "{mcc_code}",
		OperationType:    "{operation_type}",
		AvgSpendEUR:      "{avg_spend_eur}",
	})
}

func (b *Builder) compose(tax *model.Taxonomy, user userData) (model.ClassificationRequest, error) {
	if tax == nil {
		return model.ClassificationRequest{}, fmt.Errorf("%w: no taxonomy", common.ErrPromptBuild)
	}

	system, err := b.execute("system", systemData{
		PrimaryLabel: model.PrimaryLabel,
		BackupLabel:  model.BackupLabel,
		Separator:    model.LabelSeparator,
		Categories:   tax.Defaults(),
		Custom:       tax.Custom(),
	})
	if err != nil {
		return model.ClassificationRequest{}, err
	}

	req := model.ClassificationRequest{
		System: model.Message{Role: model.RoleSystem, Content: system},
	}

	// The memory rule is a hint to the model. Nothing checks that it was followed.
	if first, ok := tax.FirstCustom(); ok {
		memory, err := b.execute("memory", memoryData{Vendor: b.vendor, Category: first})
		if err != nil {
			return model.ClassificationRequest{}, err
		}
		req.Memory = &model.Message{Role: model.RoleSystem, Content: memory}
	}

	content, err := b.execute("user", user)
	if err != nil {
		return model.ClassificationRequest{}, err
	}
	req.User = model.Message{Role: model.RoleUser, Content: content}

	return req, nil
}

func (b *Builder) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := b.templates[name].ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("%w: failed to execute %s template: %v", common.ErrPromptBuild, name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// formatList renders names as a bracketed, quoted list: ['a', 'b'].
func formatList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
