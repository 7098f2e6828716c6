package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// WriteXLSX renders a run as a three-sheet workbook: composite scores,
// the flattened audit document, and the file manifest.
func WriteXLSX(run *model.Run, path string) error {
	f := xlsx.NewFile()

	if err := addScoresSheet(f, run); err != nil {
		return err
	}
	if err := addAuditSheet(f, run); err != nil {
		return err
	}
	if err := addManifestSheet(f, run); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save workbook %s", path)
}

func addScoresSheet(f *xlsx.File, run *model.Run) error {
	sheet, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "report: add scores sheet")
	}

	addRow(sheet, "client", run.Client)
	addRow(sheet, "domain", run.Domain)
	addRow(sheet, "run_date", run.RunDate)
	addRow(sheet, "run_id", run.ID)
	addRow(sheet, "status", string(run.Status))

	if run.Scores == nil {
		return nil
	}

	addRow(sheet)
	addRow(sheet, "composite", "score", "coverage", "weight_used", "weight_total")
	writeComposite(sheet, "onsite", &run.Scores.Onsite)
	writeComposite(sheet, "local", &run.Scores.Local)

	addRow(sheet)
	addRow(sheet, "component", "raw value")
	writeRaw(sheet, run.Scores.Onsite.Raw)
	writeRaw(sheet, run.Scores.Local.Raw)
	return nil
}

func writeComposite(sheet *xlsx.Sheet, name string, c *model.Composite) {
	row := sheet.AddRow()
	row.AddCell().Value = name
	row.AddCell().SetFloat(c.Score)
	row.AddCell().SetFloat(c.Coverage)
	row.AddCell().SetFloat(c.WeightUsed)
	row.AddCell().SetFloat(c.WeightTotal)
}

func writeRaw(sheet *xlsx.Sheet, raw map[string]*float64) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		row := sheet.AddRow()
		row.AddCell().Value = name
		if v := raw[name]; v != nil {
			row.AddCell().SetFloat(*v)
		} else {
			row.AddCell().Value = "excluded"
		}
	}
}

func addAuditSheet(f *xlsx.File, run *model.Run) error {
	sheet, err := f.AddSheet("Audit")
	if err != nil {
		return eris.Wrap(err, "report: add audit sheet")
	}
	addRow(sheet, "field", "value")

	if run.Audit == nil {
		return nil
	}

	// Round-trip through JSON so the sheet shows exactly what the
	// document serializes to, sentinels included.
	data, err := json.Marshal(run.Audit)
	if err != nil {
		return eris.Wrap(err, "report: marshal audit")
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return eris.Wrap(err, "report: unmarshal audit")
	}

	for _, kv := range flatten("", doc) {
		addRow(sheet, kv[0], kv[1])
	}
	return nil
}

// flatten walks a decoded JSON document depth-first and returns sorted
// dotted-path / value pairs.
func flatten(prefix string, v any) [][2]string {
	var out [][2]string
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, flatten(joinPath(prefix, k), val[k])...)
		}
	case []any:
		for i, item := range val {
			out = append(out, flatten(fmt.Sprintf("%s[%d]", prefix, i), item)...)
		}
	case nil:
		out = append(out, [2]string{prefix, ""})
	case float64:
		out = append(out, [2]string{prefix, trimFloat(val)})
	default:
		out = append(out, [2]string{prefix, fmt.Sprintf("%v", val)})
	}
	return out
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func addManifestSheet(f *xlsx.File, run *model.Run) error {
	sheet, err := f.AddSheet("Manifest")
	if err != nil {
		return eris.Wrap(err, "report: add manifest sheet")
	}
	addRow(sheet, "file", "status", "rows", "size", "note")

	names := make([]string, 0, len(run.Manifest))
	for name := range run.Manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := run.Manifest[name]
		row := sheet.AddRow()
		row.AddCell().Value = name
		row.AddCell().Value = string(entry.Status)
		if entry.Rows != nil {
			row.AddCell().SetInt(*entry.Rows)
		} else {
			row.AddCell()
		}
		if entry.Size != nil {
			row.AddCell().SetInt(*entry.Size)
		} else {
			row.AddCell()
		}
		row.AddCell().Value = entry.Note
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().Value = c
	}
}
