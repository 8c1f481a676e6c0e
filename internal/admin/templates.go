package admin

import "html/template"

// pages is the complete template set for the admin UI. The markup stays
// deliberately plain: no assets, no scripts, nothing to serve but HTML.
var pages = template.Must(template.New("admin").Parse(`
{{define "head"}}<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} — purgeall</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 2em auto; color: #222; }
h1 { font-size: 1.3em; }
table { border-collapse: collapse; }
td, th { padding: 0.3em 1em 0.3em 0; text-align: left; }
.danger { color: #a00; font-weight: bold; }
.muted { color: #777; }
form { margin-top: 1.5em; }
button { background: #a00; color: #fff; border: none; padding: 0.5em 1.2em; cursor: pointer; }
a { color: #046; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>{{end}}

{{define "foot"}}</body>
</html>{{end}}

{{define "index"}}{{template "head" .}}
<p>Namespaces:</p>
<ul>
{{range .Namespaces}}<li><a href="/ns/{{.}}">{{.}}</a></li>
{{else}}<li class="muted">no tables found</li>
{{end}}</ul>
{{template "foot" .}}{{end}}

{{define "namespace"}}{{template "head" .}}
<p><a href="/">&larr; namespaces</a></p>
<table>
<tr><th>Model</th><th>Records</th><th></th></tr>
{{range .Models}}<tr>
<td>{{.Identifier.Name}}</td>
<td>{{.Count}}</td>
<td><a href="/ns/{{.Identifier.Namespace}}/{{.Identifier.Name}}/delete-all">delete all</a></td>
</tr>
{{end}}</table>
{{template "foot" .}}{{end}}

{{define "confirm"}}{{template "head" .}}
<p>You are about to delete <span class="danger">ALL {{.Count}}</span>
records of <strong>{{.Model}}</strong>. This cannot be undone.</p>
{{if .RequiresConfirmation}}<p class="muted">This exceeds the confirmation
threshold ({{.Threshold}} records).</p>{{end}}
<form method="post">
<input type="hidden" name="post" value="yes">
<button type="submit">Yes, delete all {{.Count}} records</button>
</form>
<p><a href="/ns/{{.Namespace}}">Cancel</a></p>
{{template "foot" .}}{{end}}

{{define "blocked"}}{{template "head" .}}
<p class="danger">Deletion blocked for safety:</p>
<p>{{.Reason}}</p>
<p class="muted">To adjust these limits, edit the purgeall configuration.</p>
<p><a href="/ns/{{.Namespace}}">Back</a></p>
{{template "foot" .}}{{end}}

{{define "result"}}{{template "head" .}}
<p>{{.Message}}</p>
{{if .Breakdown}}<table>
<tr><th>Table</th><th>Deleted</th></tr>
{{range .Breakdown}}<tr><td>{{.Table}}</td><td>{{.Deleted}}</td></tr>
{{end}}</table>{{end}}
<p><a href="/ns/{{.Namespace}}">Back to {{.Namespace}}</a></p>
{{template "foot" .}}{{end}}
`))
