// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ocioreport

import (
	"io"

	"github.com/google/safehtml/template"

	"github.com/vfxbench/ocioperf/ociostat"
)

// HTMLData is the input to the HTML report template.
type HTMLData struct {
	Title       string
	Perf        ociostat.PerfSummary
	Summary     []ociostat.SummaryRow
	OSComps     []ociostat.OSComparison
	VerComps    []ociostat.VersionComparison
	Rankings    []ociostat.VersionRanking
	FailedFiles []string
}

const htmlReport = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
td.num { text-align: right; }
tr.better td { background: #e5ffe5; }
.failed { color: #900; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<h2>Overall Statistics</h2>
<table>
<tr><th>Total test results</th><td class='num'>{{.Perf.TotalResults}}</td></tr>
<tr><th>Unique files</th><td class='num'>{{.Perf.UniqueFiles}}</td></tr>
<tr><th>Unique CPU models</th><td class='num'>{{.Perf.UniqueCPUs}}</td></tr>
<tr><th>Unique OS releases</th><td class='num'>{{.Perf.UniqueOSReleases}}</td></tr>
<tr><th>OCIO versions</th><td>{{range $i, $v := .Perf.OCIOVersions}}{{if $i}}, {{end}}{{$v}}{{end}}</td></tr>
<tr><th>ACES versions</th><td>{{range $i, $v := .Perf.AcesVersions}}{{if $i}}, {{end}}{{$v}}{{end}}</td></tr>
<tr><th>Mean time</th><td class='num'>{{printf "%.3f ms" .Perf.Mean}}</td></tr>
<tr><th>Median time</th><td class='num'>{{printf "%.3f ms" .Perf.Median}}</td></tr>
<tr><th>Std deviation</th><td class='num'>{{printf "%.3f ms" .Perf.Std}}</td></tr>
</table>

{{if .Summary}}
<h2>Per-Configuration Summary</h2>
<table>
<tr><th>file</th><th>OS</th><th>OCIO</th><th>ACES</th><th>ops</th><th>mean avg</th><th>median avg</th></tr>
{{range .Summary}}
<tr><td>{{.FileName}}</td><td>{{.OSRelease}}</td><td>{{.OCIOVersion}}</td><td>{{.AcesVersion}}</td><td class='num'>{{.TotalOps}}</td><td class='num'>{{printf "%.3f ms" .MeanAvgTime}}</td><td class='num'>{{printf "%.3f ms" .MedianAvgTime}}</td></tr>
{{end}}
</table>
{{end}}

{{if .OSComps}}
<h2>OS Release Comparisons</h2>
<table>
<tr><th>CPU</th><th>ACES</th><th>faster OS</th><th>slower OS</th><th>faster</th><th>slower</th><th>improvement</th></tr>
{{range .OSComps}}
<tr class='better'><td>{{.CPUModel}}</td><td>{{.AcesVersion}}</td><td>{{.FasterOS}}</td><td>{{.SlowerOS}}</td><td class='num'>{{printf "%.3f ms" .FasterTime}}</td><td class='num'>{{printf "%.3f ms" .SlowerTime}}</td><td class='num'>{{printf "%.1f%%" .ImprovementPct}}</td></tr>
{{end}}
</table>
{{end}}

{{if .VerComps}}
<h2>OCIO Version Comparisons</h2>
<table>
<tr><th>CPU</th><th>OS</th><th>ACES</th><th>faster</th><th>slower</th><th>faster time</th><th>slower time</th><th>improvement</th></tr>
{{range .VerComps}}
<tr class='better'><td>{{.CPUModel}}</td><td>{{.OSRelease}}</td><td>{{.AcesVersion}}</td><td>{{.FasterVersion}}</td><td>{{.SlowerVersion}}</td><td class='num'>{{printf "%.3f ms" .FasterTime}}</td><td class='num'>{{printf "%.3f ms" .SlowerTime}}</td><td class='num'>{{printf "%.1f%%" .ImprovementPct}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Rankings}}
<h2>Version Rankings</h2>
<table>
<tr><th>OCIO version</th><th>ACES</th><th>mean avg</th><th>CPUs</th><th>OSes</th><th>files</th></tr>
{{range .Rankings}}
<tr><td>{{.OCIOVersion}}</td><td>{{.AcesVersion}}</td><td class='num'>{{printf "%.3f ms" .MeanAvgTime}}</td><td class='num'>{{.CPUCount}}</td><td class='num'>{{.OSCount}}</td><td class='num'>{{.FileCount}}</td></tr>
{{end}}
</table>
{{end}}

{{if .FailedFiles}}
<h2>Failed Files</h2>
<ul>
{{range .FailedFiles}}<li class='failed'>{{.}}</li>{{end}}
</ul>
{{end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").ParseFromTrustedTemplate(
	template.MakeTrustedTemplate(htmlReport)))

// WriteHTML renders the combined HTML report.
func WriteHTML(w io.Writer, data HTMLData) error {
	return htmlTemplate.Execute(w, data)
}
