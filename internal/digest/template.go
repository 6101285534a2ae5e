package digest

import "html/template"

// Dark-theme document with inline styles on every element for email-client
// compatibility. Section order is fixed: executive summary, articles by
// topic, credibility assessment, coverage analysis, bottom line.
var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"mulRate": func(rate float64) float64 { return rate * 100 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #f0f0f0; background-color: #1e1e1e; padding: 20px; max-width: 900px; margin: 0 auto;">
<h1 style="color: #4a9eff; border-bottom: 2px solid #4a9eff; padding-bottom: 10px; font-size: 24px; margin: 20px 0;">Daily News Intelligence Report - {{.Date}}</h1>

<h2 style="color: #ffffff; font-size: 18px; margin-top: 30px; font-weight: bold;">1. EXECUTIVE SUMMARY</h2>
<ul style="color: #d0d0d0; font-size: 14px; margin-left: 20px;">
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Total articles analyzed:</strong> {{.TotalArticles}}</li>
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Time period:</strong> {{.Date}}</li>
{{- if .KeyThemes}}
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Key themes:</strong> {{.KeyThemes}}</li>
{{- end}}
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Coverage areas:</strong> US Politics, Technology, European/Ukraine News</li>
{{- if .SourceDiversity}}
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Source diversity:</strong> {{.SourceDiversity}} distinct outlets behind aggregated entries ({{.OriginalSources}})</li>
{{- end}}
</ul>

<h2 style="color: #ffffff; font-size: 18px; margin-top: 30px; font-weight: bold;">2. ARTICLES BY TOPIC</h2>
{{- range .Sections}}
<h3 style="color: #cccccc; font-size: 16px; margin-top: 20px; margin-bottom: 10px;">{{.Title}} ({{.Count}} articles)</h3>
{{- range .Articles}}
<div style="background-color: #2d2d2d; padding: 15px; margin-bottom: 15px; border-radius: 5px; border: 1px solid #444;">
    <div style="font-weight: bold; color: #ffffff; margin-bottom: 8px; font-size: 15px;">{{.Title}} - {{.Source}}</div>
{{- if .Summary}}
    <p style="margin: 5px 0; font-size: 13px; color: #d0d0d0;"><strong>Summary:</strong> {{.Summary}}</p>
{{- end}}
{{- if .Sentiment}}
    <p style="margin: 5px 0; font-size: 13px; color: #d0d0d0;"><strong>Sentiment:</strong> {{.Sentiment}}</p>
{{- end}}
{{- if .Credibility}}
    <p style="margin: 5px 0; font-size: 13px; color: #d0d0d0;"><strong>Credibility:</strong> {{.Credibility}}</p>
{{- end}}
{{- if .Entities}}
    <p style="margin: 5px 0; font-size: 13px; color: #d0d0d0;"><strong>Key entities:</strong> {{.Entities}}</p>
{{- end}}
{{- if .URL}}
    <p style="margin: 5px 0; font-size: 13px;"><a href="{{.URL}}" style="color: #4a9eff; text-decoration: none;">Link to article</a></p>
{{- end}}
</div>
{{- end}}
{{- end}}

<h2 style="color: #ffffff; font-size: 18px; margin-top: 30px; font-weight: bold;">3. CREDIBILITY ASSESSMENT</h2>
<ul style="color: #d0d0d0; font-size: 14px; margin-left: 20px;">
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Distribution:</strong> {{.Credibility.HighCredibility}} high / {{.Credibility.MediumCredibility}} medium / {{.Credibility.LowCredibility}} low</li>
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Average credibility score:</strong> {{printf "%.1f" .Credibility.AvgCredibility}}/100</li>
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Average bias score:</strong> {{printf "%.1f" .Credibility.AvgBias}}/10</li>
    <li style="color: #d0d0d0; font-size: 14px;"><strong>Flagged claims needing verification:</strong> {{.Claims.FlaggedCount}} of {{.Claims.TotalClaims}} ({{printf "%.0f" (mulRate .Claims.FlagRate)}}%)</li>
</ul>
{{- range .Flagged}}
<div style="background-color: #2d2d2d; padding: 10px; margin-bottom: 10px; border-radius: 5px; border: 1px solid #444;">
    <p style="margin: 5px 0; font-size: 13px; color: #d0d0d0;"><strong>{{.Source}}</strong> ({{.Reason}}): {{.Claim}}</p>
</div>
{{- end}}

<h2 style="color: #ffffff; font-size: 18px; margin-top: 30px; font-weight: bold;">4. COVERAGE ANALYSIS &amp; MEDIA FRAMING</h2>
{{- if .SentimentSplits}}
<p style="color: #d0d0d0; font-size: 14px;"><strong>Sentiment distribution by topic:</strong></p>
<ul style="color: #d0d0d0; font-size: 14px; margin-left: 20px;">
{{- range .SentimentSplits}}
    <li style="color: #d0d0d0; font-size: 14px;">{{.Category}}: {{.Positive}} positive, {{.Negative}} negative, {{.Neutral}} neutral</li>
{{- end}}
</ul>
{{- end}}
{{- if .Sources}}
<p style="color: #d0d0d0; font-size: 14px;"><strong>Source framing signals (avg per article):</strong></p>
<ul style="color: #d0d0d0; font-size: 14px; margin-left: 20px;">
{{- range .Sources}}
    <li style="color: #d0d0d0; font-size: 14px;">{{.DisplayName}} ({{.Articles}} articles): left {{printf "%.2f" .AvgLeft}}, right {{printf "%.2f" .AvgRight}}, emotional {{printf "%.2f" .AvgEmotional}}</li>
{{- end}}
</ul>
{{- end}}
<p style="color: #d0d0d0; font-size: 14px;"><strong>Most covered topics (by article count):</strong></p>
<ul style="color: #d0d0d0; font-size: 14px; margin-left: 20px;">
{{- range .Sections}}
    <li style="color: #d0d0d0; font-size: 14px;">{{.Title}} ({{.Count}} articles)</li>
{{- end}}
</ul>

<h2 style="color: #ffffff; font-size: 18px; margin-top: 30px; font-weight: bold;">5. BOTTOM LINE</h2>
{{- if .TopKeywords}}
<p style="color: #d0d0d0; font-size: 14px;"><strong>Top keywords across coverage:</strong> {{.TopKeywords}}</p>
{{- end}}
<p style="color: #d0d0d0; font-size: 14px;">{{.TotalArticles}} articles collected across {{len .Sections}} topic areas in this reporting window. Credibility and framing statistics above reflect the full collected set without deduplication.</p>

</body>
</html>
`))
