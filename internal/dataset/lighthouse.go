package dataset

import (
	"github.com/tidwall/gjson"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// lighthouseSample holds the vitals read from one performance report. A nil
// field means the audit was absent from that report.
type lighthouseSample struct {
	lcpMillis *float64
	cls       *float64
	inpMillis *float64
	ttfbMillis *float64
	perfScore *float64
}

// Lighthouse reads up to three fixed-named performance reports, one per
// sampled URL, and aggregates four vitals to their p75 across the reports
// that carried them. The pass rate is computed only over reports where LCP,
// CLS, and INP are all present.
type Lighthouse struct {
	reports    []string
	thresholds CWVThresholds
}

// NewLighthouse builds the extractor with the report list and pass
// thresholds from cfg.
func NewLighthouse(cfg Config) *Lighthouse {
	return &Lighthouse{reports: cfg.LighthouseReports, thresholds: cfg.CWV}
}

func (d *Lighthouse) Name() string    { return "lighthouse" }
func (d *Lighthouse) Files() []string { return d.reports }

func (d *Lighthouse) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	var samples []lighthouseSample
	for _, name := range d.reports {
		data, err := ar.Lookup(name)
		if err != nil {
			man.Missing(name)
			continue
		}
		if !gjson.ValidBytes(data) {
			man.Record(name, model.StatusPartial)
			man.SetNote(name, "invalid json")
			continue
		}
		samples = append(samples, lighthouseSample{
			lcpMillis:  jsonNumber(data, "audits.largest-contentful-paint.numericValue"),
			cls:        jsonNumber(data, "audits.cumulative-layout-shift.numericValue"),
			inpMillis:  jsonNumber(data, "audits.interactive.numericValue"),
			ttfbMillis: jsonNumber(data, "audits.server-response-time.numericValue"),
			perfScore:  jsonNumber(data, "categories.performance.score"),
		})
		man.Record(name, model.StatusFull)
		audit.Provenance.Lighthouse = true
	}
	if len(samples) == 0 {
		return
	}

	audit.Onsite.CWV.LCPp75 = aggregateP75(samples, func(s lighthouseSample) *float64 { return s.lcpMillis })
	audit.Onsite.CWV.CLSp75 = aggregateP75(samples, func(s lighthouseSample) *float64 { return s.cls })
	audit.Onsite.CWV.INPp75 = aggregateP75(samples, func(s lighthouseSample) *float64 { return s.inpMillis })

	passed, evaluated := 0, 0
	for _, s := range samples {
		if s.lcpMillis == nil || s.cls == nil || s.inpMillis == nil {
			continue
		}
		evaluated++
		if *s.lcpMillis <= d.thresholds.LCPMillis &&
			*s.cls <= d.thresholds.CLS &&
			*s.inpMillis <= d.thresholds.INPMillis {
			passed++
		}
	}
	if evaluated > 0 {
		audit.Onsite.CWV.PassRate = model.SomeMetric(float64(passed) / float64(evaluated))
	}
}

// jsonNumber reads a numeric value at path, returning nil when any part of
// the path is absent. An absent nested key is data, not an error.
func jsonNumber(data []byte, path string) *float64 {
	res := gjson.GetBytes(data, path)
	if !res.Exists() || res.Type != gjson.Number {
		return nil
	}
	v := res.Float()
	return &v
}

// aggregateP75 computes the p75 of one vital over the samples that carry it,
// or a missing Metric when none do.
func aggregateP75(samples []lighthouseSample, pick func(lighthouseSample) *float64) model.Metric {
	var xs []float64
	for _, s := range samples {
		if v := pick(s); v != nil {
			xs = append(xs, *v)
		}
	}
	if len(xs) == 0 {
		return model.Metric{}
	}
	return model.SomeMetric(p75(xs))
}
