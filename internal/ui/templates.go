package ui

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"timeAgo": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return humanize.Time(t)
	},
	"bytes": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.Bytes(uint64(n))
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"fieldError": func(errs any, field string) string {
		return asFieldErrors(errs).Get(field)
	},
	"inputClass": func(errs any, field string) string {
		if asFieldErrors(errs).Get(field) != "" {
			return "border-red-500"
		}
		return "border-gray-300"
	},
	"deref": func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"statusSelected": func(p *model.DeliveryStatus, s model.DeliveryStatus) bool {
		return p != nil && *p == s
	},
	"hasCategory": func(cs []model.InvoiceCategory, c model.InvoiceCategory) bool {
		for _, x := range cs {
			if x == c {
				return true
			}
		}
		return false
	},
	"statusColor": func(s model.DeliveryStatus) string {
		switch s {
		case model.DeliveryNotCollected:
			return "bg-gray-100 text-gray-800"
		case model.DeliveryCollected, model.DeliverySorting:
			return "bg-yellow-100 text-yellow-800"
		case model.DeliveryLoading, model.DeliveryArrivedAtHub, model.DeliveryLoadedAtHub:
			return "bg-blue-100 text-blue-800"
		case model.DeliveryDelivered:
			return "bg-green-100 text-green-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
	"toastColor": func(l notify.Level) string {
		switch l {
		case notify.LevelSuccess:
			return "bg-green-50 text-green-800 border-green-200"
		case notify.LevelError:
			return "bg-red-50 text-red-800 border-red-200"
		default:
			return "bg-blue-50 text-blue-800 border-blue-200"
		}
	},
	"roleLabel": func(r model.Role) string {
		switch r {
		case model.RoleSuperAdmin:
			return "Super admin"
		case model.RoleAdmin:
			return "Admin"
		case model.RoleCustomer:
			return "Customer"
		}
		return string(r)
	},
	"pageURL": func(path string, q url.Values, page int) string {
		v := url.Values{}
		for k, vals := range q {
			v[k] = vals
		}
		v.Set("page", strconv.Itoa(page))
		return path + "?" + v.Encode()
	},
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
	"add": func(a, b int) int {
		return a + b
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
}

// asFieldErrors accepts whatever a page stored under "Errors", including
// nothing at all.
func asFieldErrors(v any) forms.FieldErrors {
	fe, _ := v.(forms.FieldErrors)
	return fe
}

// parsed holds every page joined with the layout and shared components.
var parsed = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(templates))
	for name, content := range templates {
		if name == "layout" || strings.HasPrefix(name, "components/") {
			continue
		}
		tmpl, err := parsePage(content)
		if err != nil {
			panic(fmt.Sprintf("ui: template %s: %v", name, err))
		}
		out[name] = tmpl
	}
	return out
}

func parsePage(content string) (*template.Template, error) {
	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(templates["layout"])
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			if _, err := tmpl.New(compName).Parse(compContent); err != nil {
				return nil, fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}
	if _, err := tmpl.New("content").Parse(content); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return tmpl, nil
}

// renderTemplate renders a template with the given data.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	tmpl, ok := parsed[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .Session}}
    <div class="flex min-h-screen">
        <aside class="w-64 bg-white border-r">
            <a href="/" class="block px-6 py-5 text-xl font-bold text-indigo-600">shipdesk</a>
            <nav class="px-3 space-y-1">
                <a href="/" class="block px-3 py-2 rounded-md text-sm font-medium {{if eq .CurrentPath "/"}}bg-indigo-50 text-indigo-700{{else}}text-gray-700 hover:bg-gray-50{{end}}">Dashboard</a>
                {{range .Nav.Entries}}
                {{if .IsGroup}}
                <details open class="group">
                    <summary class="px-3 py-2 text-xs font-semibold uppercase tracking-wide text-gray-500 cursor-pointer">{{.Group.Label}}</summary>
                    {{range .Group.Links}}
                    <a href="{{.Path}}" class="block pl-6 pr-3 py-2 rounded-md text-sm {{if eq $.CurrentPath .Path}}bg-indigo-50 text-indigo-700{{else}}text-gray-700 hover:bg-gray-50{{end}}">{{.Label}}</a>
                    {{end}}
                </details>
                {{else}}
                <a href="{{.Link.Path}}" class="block px-3 py-2 rounded-md text-sm font-medium {{if eq $.CurrentPath .Link.Path}}bg-indigo-50 text-indigo-700{{else}}text-gray-700 hover:bg-gray-50{{end}}">{{.Link.Label}}</a>
                {{end}}
                {{end}}
            </nav>
        </aside>
        <div class="flex-1">
            <header class="bg-white shadow-sm border-b">
                <div class="px-6 h-14 flex items-center justify-end space-x-4">
                    <a href="/settings" class="text-sm text-gray-600 hover:text-gray-900">{{.Session.User.DisplayName}}</a>
                    <span class="text-xs text-gray-400">{{roleLabel .Session.User.Role}}</span>
                    <form action="/logout" method="POST"><button class="text-sm text-gray-500 hover:text-gray-700">Logout</button></form>
                </div>
            </header>
            {{template "toasts" .}}
            <main class="max-w-7xl mx-auto py-6 px-6">
                {{template "content" .}}
            </main>
        </div>
    </div>
    {{else}}
    {{template "toasts" .}}
    <main>
        {{template "content" .}}
    </main>
    {{end}}
</body>
</html>`,

	"components/toasts": `{{define "toasts"}}
{{if .Toasts}}
<div class="fixed top-4 right-4 z-50 space-y-2 w-80">
    {{range .Toasts}}
    <div class="border rounded-md p-3 shadow {{toastColor .Level}}">
        <p class="text-sm font-medium">{{.Title}}</p>
        {{if .Description}}<p class="text-sm mt-1">{{.Description}}</p>{{end}}
    </div>
    {{end}}
</div>
{{end}}
{{end}}`,

	"components/pagination": `{{define "pagination"}}
{{with .Pagination}}
<div class="flex items-center justify-between mt-4 text-sm text-gray-600">
    <span>{{comma .Total}} total</span>
    <div class="space-x-2">
        {{if .HasPrev}}<a href="{{pageURL $.CurrentPath $.Query .PrevPage}}" class="px-3 py-1 border rounded-md">Previous</a>{{end}}
        <span>Page {{.Page}}</span>
        {{if .HasMore}}<a href="{{pageURL $.CurrentPath $.Query .NextPage}}" class="px-3 py-1 border rounded-md">Next</a>{{end}}
    </div>
</div>
{{end}}
{{end}}`,

	"components/import": `{{define "import"}}
{{if .CanImport}}
<form action="{{.ImportPath}}" method="POST" enctype="multipart/form-data" class="bg-white shadow rounded-lg p-4 mb-6 flex items-center space-x-4">
    <label class="text-sm font-medium text-gray-700">Import CSV</label>
    <input type="file" name="file" accept=".csv,text/csv" class="text-sm">
    <button type="submit" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Upload</button>
</form>
{{end}}
{{end}}`,

	"components/customer-select": `{{define "customer-select"}}
<select name="customer_id" class="mt-1 block w-full rounded-md border px-3 py-2 {{inputClass .Errors "customer_id"}}">
    <option value="">Select a customer</option>
    {{range .Customers}}
    <option value="{{.ID}}" {{if eq .ID $.SelectedCustomer}}selected{{end}}>{{.Code}} {{.Name}}</option>
    {{end}}
</select>
{{with fieldError .Errors "customer_id"}}<p class="mt-1 text-sm text-red-600">{{.}}</p>{{end}}
{{end}}`,

	"login": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center bg-gray-50 py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">shipdesk</h2>
            <p class="mt-2 text-center text-sm text-gray-600">Sign in with your operator account</p>
        </div>
        {{if .Error}}
        <div class="rounded-md bg-red-50 p-4">
            <div class="text-sm text-red-700">{{.Error}}</div>
        </div>
        {{end}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <div class="space-y-4">
                <div>
                    <label for="username" class="block text-sm font-medium text-gray-700">User code</label>
                    <input id="username" name="username" type="text" value="{{.Form.Username}}" autocomplete="username"
                           class="mt-1 block w-full px-3 py-2 border rounded-md sm:text-sm {{inputClass .Errors "username"}}">
                    {{with fieldError .Errors "username"}}<p class="mt-1 text-sm text-red-600">{{.}}</p>{{end}}
                </div>
                <div>
                    <label for="password" class="block text-sm font-medium text-gray-700">Password</label>
                    <input id="password" name="password" type="password" autocomplete="current-password"
                           class="mt-1 block w-full px-3 py-2 border rounded-md sm:text-sm {{inputClass .Errors "password"}}">
                    {{with fieldError .Errors "password"}}<p class="mt-1 text-sm text-red-600">{{.}}</p>{{end}}
                </div>
            </div>
            <button type="submit"
                    class="w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                Sign in
            </button>
        </form>
    </div>
</div>
{{end}}`,

	"dashboard": `{{define "content"}}
<div class="mb-8">
    <h1 class="text-2xl font-semibold text-gray-900">Dashboard</h1>
    <p class="mt-1 text-sm text-gray-500">Welcome back, {{.Session.User.DisplayName}}</p>
</div>

{{if .Nav.Empty}}
<div class="rounded-md bg-yellow-50 p-4 mb-8 text-sm text-yellow-800">
    Your account has no menu permissions yet. Ask an administrator to grant access.
</div>
{{else}}
<div class="grid grid-cols-1 gap-4 sm:grid-cols-2 lg:grid-cols-3 mb-8">
    {{range .Nav.Links}}
    <a href="{{.Path}}" class="bg-white shadow rounded-lg p-4 hover:bg-gray-50">
        <p class="text-sm font-medium text-gray-900">{{.Label}}</p>
        <p class="text-xs text-gray-500 font-mono">{{.Path}}</p>
    </a>
    {{end}}
</div>
{{end}}

{{if .RecentScans}}
<h2 class="text-lg font-medium text-gray-900 mb-3">Recent scans</h2>
<div class="grid grid-cols-1 gap-4 lg:grid-cols-2 mb-8">
    {{range .RecentScans}}
    <div class="bg-white shadow rounded-lg">
        <div class="px-4 py-3 border-b flex justify-between">
            <a href="{{.Definition.Path}}" class="text-sm font-medium text-indigo-600">{{.Definition.Title}}</a>
        </div>
        <ul class="divide-y">
            {{range .Events}}
            <li class="px-4 py-2 flex justify-between text-sm">
                <span class="font-mono">{{.DocumentNumber}}</span>
                <span class="{{if .OK}}text-green-600{{else}}text-red-600{{end}}">{{if .OK}}ok{{else}}failed{{end}}</span>
                <span class="text-gray-500">{{timeAgo .ScannedAt}}</span>
            </li>
            {{else}}
            <li class="px-4 py-2 text-sm text-gray-500">No scans yet</li>
            {{end}}
        </ul>
    </div>
    {{end}}
</div>
{{end}}

{{if .RecentImports}}
<h2 class="text-lg font-medium text-gray-900 mb-3">Recent imports <span class="text-sm text-gray-500">({{comma .ImportCount}})</span></h2>
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50">
            <tr>
                <th class="px-4 py-2 text-left">File</th>
                <th class="px-4 py-2 text-left">Kind</th>
                <th class="px-4 py-2 text-right">Rows</th>
                <th class="px-4 py-2 text-right">Size</th>
                <th class="px-4 py-2 text-left">Result</th>
                <th class="px-4 py-2 text-left">When</th>
            </tr>
        </thead>
        <tbody class="divide-y divide-gray-200">
            {{range .RecentImports}}
            <tr>
                <td class="px-4 py-2">{{.Filename}}</td>
                <td class="px-4 py-2">{{.Kind}}</td>
                <td class="px-4 py-2 text-right">{{comma .Rows}}</td>
                <td class="px-4 py-2 text-right">{{bytes .Size}}</td>
                <td class="px-4 py-2 {{if .OK}}text-green-600{{else}}text-red-600{{end}}">{{truncate .Message 60}}</td>
                <td class="px-4 py-2 text-gray-500" title="{{formatTime .CreatedAt}}">{{timeAgo .CreatedAt}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>
</div>
{{end}}
<p class="mt-8 text-xs text-gray-400">Up {{.Uptime}}</p>
{{end}}`,

	"settings": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">Settings</h1>
<div class="grid grid-cols-1 gap-6 lg:grid-cols-2">
    <div class="bg-white shadow rounded-lg p-6">
        <h2 class="text-lg font-medium mb-4">Profile</h2>
        <dl class="text-sm space-y-2">
            <div class="flex"><dt class="w-32 text-gray-500">User code</dt><dd>{{.Session.User.Username}}</dd></div>
            <div class="flex"><dt class="w-32 text-gray-500">Name</dt><dd>{{.Session.User.DisplayName}}</dd></div>
            <div class="flex"><dt class="w-32 text-gray-500">Email</dt><dd>{{.Session.User.Email}}</dd></div>
            <div class="flex"><dt class="w-32 text-gray-500">Role</dt><dd>{{roleLabel .Session.User.Role}}</dd></div>
            {{if .HasTokenExpiry}}
            <div class="flex"><dt class="w-32 text-gray-500">Token expires</dt><dd title="{{formatTime .TokenExpiry}}">{{timeAgo .TokenExpiry}}</dd></div>
            {{end}}
        </dl>
    </div>
    <div class="bg-white shadow rounded-lg p-6">
        <h2 class="text-lg font-medium mb-4">Connection</h2>
        <dl class="text-sm space-y-2">
            <div class="flex"><dt class="w-32 text-gray-500">API</dt><dd class="font-mono">{{.APIBaseURL}}</dd></div>
            <div class="flex"><dt class="w-32 text-gray-500">Session store</dt><dd>{{.SessionBackend}}</dd></div>
            <div class="flex"><dt class="w-32 text-gray-500">Import limit</dt><dd>{{bytes .MaxImportBytes}}</dd></div>
        </dl>
    </div>
    <div class="bg-white shadow rounded-lg p-6 lg:col-span-2">
        <h2 class="text-lg font-medium mb-4">Menu access</h2>
        <ul class="grid grid-cols-2 gap-2 text-sm">
            {{range .Groups}}
            <li><input type="checkbox" disabled {{if index $.Toggles .Key}}checked{{end}}> {{.Label}}</li>
            {{end}}
        </ul>
        <p class="mt-4 text-xs text-gray-500 font-mono">{{range .Permissions}}{{.}} {{end}}</p>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="min-h-[50vh] flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-4xl font-bold text-gray-900 mb-4">Error</h1>
        <p class="text-gray-600 mb-2">{{.Message}}</p>
        {{if .Detail}}<p class="text-sm text-gray-500 mb-8">{{.Detail}}</p>{{end}}
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Return to Dashboard</a>
    </div>
</div>
{{end}}`,

	"customers/list": `{{define "content"}}
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">Customers</h1>
    {{if .Session.Can "customers.create"}}<a href="/customers/new" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600">New customer</a>{{end}}
</div>
<form method="GET" class="flex space-x-2 mb-4">
    <input name="customer_name" value="{{.Filter.CustomerName}}" placeholder="Customer name" class="px-3 py-2 border rounded-md text-sm">
    <button class="px-4 py-2 text-sm border rounded-md">Search</button>
</form>
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Code</th><th class="px-4 py-2 text-left">Name</th>
            <th class="px-4 py-2 text-left">Contact</th><th class="px-4 py-2 text-left">Phone</th><th></th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Customers}}
            <tr>
                <td class="px-4 py-2 font-mono">{{.Code}}</td>
                <td class="px-4 py-2">{{.Name}}<div class="text-xs text-gray-500">{{.DepartmentName}}</div></td>
                <td class="px-4 py-2">{{.ContactName}}</td>
                <td class="px-4 py-2">{{.PhoneNumber}}</td>
                <td class="px-4 py-2 text-right">{{if $.Session.Can "customers.update"}}<a href="/customers/{{.ID}}" class="text-indigo-600">Edit</a>{{end}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5" class="px-4 py-8 text-center text-gray-500">No customers found</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"customers/form": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .ID}}Edit customer{{else}}New customer{{end}}</h1>
<form method="POST" action="/customers{{if .ID}}/{{.ID}}{{end}}" class="bg-white shadow rounded-lg p-6 grid grid-cols-2 gap-4 text-sm">
    {{$e := .Errors}}
    <div><label>Customer code</label><input name="customer_code" value="{{.Form.Code}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_code"}}">{{with fieldError $e "customer_code"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Customer name</label><input name="customer_name" value="{{.Form.Name}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_name"}}">{{with fieldError $e "customer_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Department</label><input name="customer_department_name" value="{{.Form.DepartmentName}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_department_name"}}">{{with fieldError $e "customer_department_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Contact</label><input name="customer_contact_name" value="{{.Form.ContactName}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_contact_name"}}">{{with fieldError $e "customer_contact_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Post code</label><input name="customer_post_code" value="{{.Form.PostCode}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_post_code"}}">{{with fieldError $e "customer_post_code"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Prefecture</label><input name="customer_prefecures" value="{{.Form.Prefecture}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_prefecures"}}">{{with fieldError $e "customer_prefecures"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Address</label><input name="customer_address_1" value="{{.Form.Address1}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_address_1"}}">{{with fieldError $e "customer_address_1"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Address 2</label><input name="customer_address_2" value="{{.Form.Address2}}" class="mt-1 block w-full border rounded-md px-3 py-2 border-gray-300"></div>
    <div><label>Phone</label><input name="customer_phone_number" value="{{.Form.PhoneNumber}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_phone_number"}}">{{with fieldError $e "customer_phone_number"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Email</label><input name="customer_email" value="{{.Form.Email}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "customer_email"}}">{{with fieldError $e "customer_email"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div class="col-span-2 flex justify-end space-x-2">
        <a href="/customers" class="px-4 py-2 border rounded-md">Cancel</a>
        <button type="submit" class="px-4 py-2 rounded-md text-white bg-indigo-600">Save</button>
    </div>
</form>
{{end}}`,

	"users/list": `{{define "content"}}
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">Users</h1>
    {{if .Session.Can "users.create"}}<a href="/users/new" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600">New user</a>{{end}}
</div>
<form method="GET" class="flex space-x-2 mb-4">
    <input name="username" value="{{.Filter.Username}}" placeholder="User code" class="px-3 py-2 border rounded-md text-sm">
    <select name="role" class="px-3 py-2 border rounded-md text-sm">
        <option value="">Any role</option>
        <option value="super_admin" {{if eq .Filter.Role "super_admin"}}selected{{end}}>Super admin</option>
        <option value="admin" {{if eq .Filter.Role "admin"}}selected{{end}}>Admin</option>
        <option value="customer" {{if eq .Filter.Role "customer"}}selected{{end}}>Customer</option>
    </select>
    <button class="px-4 py-2 text-sm border rounded-md">Search</button>
</form>
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Code</th><th class="px-4 py-2 text-left">Name</th>
            <th class="px-4 py-2 text-left">Email</th><th class="px-4 py-2 text-left">Role</th><th></th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Users}}
            <tr>
                <td class="px-4 py-2 font-mono">{{.Username}}</td>
                <td class="px-4 py-2">{{.DisplayName}}</td>
                <td class="px-4 py-2">{{.Email}}</td>
                <td class="px-4 py-2">{{roleLabel .Role}}</td>
                <td class="px-4 py-2 text-right">{{if $.Session.Can "users.update"}}<a href="/users/{{.ID}}" class="text-indigo-600">Edit</a>{{end}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5" class="px-4 py-8 text-center text-gray-500">No users found</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"users/form": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .ID}}Edit user{{else}}New user{{end}}</h1>
{{$e := .Errors}}
<form method="POST" action="/users{{if .ID}}/{{.ID}}{{end}}" class="bg-white shadow rounded-lg p-6 grid grid-cols-2 gap-4 text-sm">
    <div><label>User code</label><input name="username" value="{{.Form.Username}}" maxlength="6" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "username"}}">{{with fieldError $e "username"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Name</label><input name="user_name" value="{{.Form.UserName}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "user_name"}}">{{with fieldError $e "user_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Email</label><input name="email" value="{{.Form.Email}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "email"}}">{{with fieldError $e "email"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Password{{if .ID}} (leave blank to keep){{end}}</label><input type="password" name="password" autocomplete="new-password" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "password"}}">{{with fieldError $e "password"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Role</label>
        <select name="role" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "role"}}">
            {{range .Roles}}<option value="{{.}}" {{if eq . $.Form.Role}}selected{{end}}>{{roleLabel .}}</option>{{end}}
        </select>
        {{with fieldError $e "role"}}<p class="text-red-600">{{.}}</p>{{end}}
    </div>
    <div><label>Customer (customer role only)</label>
        {{template "customer-select" dict "Customers" .Customers "Errors" $e "SelectedCustomer" (deref .Form.CustomerID)}}
    </div>
    <fieldset class="col-span-2">
        <legend class="font-medium mb-2">Menu access</legend>
        <div class="grid grid-cols-3 gap-2">
            {{range .Groups}}
            <label><input type="checkbox" name="groups.{{.Key}}" {{if index $.Form.Groups .Key}}checked{{end}}> {{.Label}}</label>
            {{end}}
        </div>
    </fieldset>
    <div class="col-span-2 flex justify-end space-x-2">
        <a href="/users" class="px-4 py-2 border rounded-md">Cancel</a>
        <button type="submit" class="px-4 py-2 rounded-md text-white bg-indigo-600">Save</button>
    </div>
</form>
{{end}}`,

	"pickups/list": `{{define "content"}}
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">Pickup locations</h1>
    {{if .Session.Can "pickups.create"}}<a href="/pickup/new" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600">New pickup location</a>{{end}}
</div>
{{template "import" .}}
{{template "location-filter" .}}
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Customer</th><th class="px-4 py-2 text-left">Name</th>
            <th class="px-4 py-2 text-left">Address</th><th class="px-4 py-2 text-left">Phone</th><th></th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Pickups}}
            <tr>
                <td class="px-4 py-2">{{.CustomerName}}</td>
                <td class="px-4 py-2">{{.AddressName}}</td>
                <td class="px-4 py-2">{{.Address}}</td>
                <td class="px-4 py-2">{{.PhoneNumber}}</td>
                <td class="px-4 py-2 text-right">{{if $.Session.Can "pickups.update"}}<a href="/pickup/{{.ID}}" class="text-indigo-600">Edit</a>{{end}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5" class="px-4 py-8 text-center text-gray-500">No pickup locations found</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"components/location-filter": `{{define "location-filter"}}
<form method="GET" class="flex flex-wrap gap-2 mb-4">
    <input name="address_name" value="{{.Filter.AddressName}}" placeholder="Name" class="px-3 py-2 border rounded-md text-sm">
    <input name="address" value="{{.Filter.Address}}" placeholder="Address" class="px-3 py-2 border rounded-md text-sm">
    <input name="phone_number" value="{{.Filter.PhoneNumber}}" placeholder="Phone" class="px-3 py-2 border rounded-md text-sm {{inputClass .Errors "phone_number"}}">
    <button class="px-4 py-2 text-sm border rounded-md">Search</button>
    {{with fieldError .Errors "phone_number"}}<p class="w-full text-sm text-red-600">{{.}}</p>{{end}}
</form>
{{end}}`,

	"pickups/form": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .ID}}Edit pickup location{{else}}New pickup location{{end}}</h1>
{{$e := .Errors}}
<form method="POST" action="/pickup{{if .ID}}/{{.ID}}{{end}}" class="bg-white shadow rounded-lg p-6 grid grid-cols-2 gap-4 text-sm">
    <div class="col-span-2"><label>Customer</label>
        {{template "customer-select" dict "Customers" .Customers "Errors" $e "SelectedCustomer" .Form.CustomerID}}
    </div>
    <div><label>Name</label><input name="pickup_address_name" value="{{.Form.AddressName}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup_address_name"}}">{{with fieldError $e "pickup_address_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Phone</label><input name="pickup_phone_number" value="{{.Form.PhoneNumber}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup_phone_number"}}">{{with fieldError $e "pickup_phone_number"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div class="col-span-2"><label>Address</label><input name="pickup_address" value="{{.Form.Address}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup_address"}}">{{with fieldError $e "pickup_address"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div class="col-span-2 flex justify-end space-x-2">
        <a href="/pickup" class="px-4 py-2 border rounded-md">Cancel</a>
        <button type="submit" class="px-4 py-2 rounded-md text-white bg-indigo-600">Save</button>
    </div>
</form>
{{end}}`,

	"deliveries/list": `{{define "content"}}
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">Delivery destinations</h1>
    {{if .Session.Can "deliveries.create"}}<a href="/delivery/new" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600">New destination</a>{{end}}
</div>
{{template "import" .}}
{{template "location-filter" .}}
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Customer</th><th class="px-4 py-2 text-left">Name</th>
            <th class="px-4 py-2 text-left">Address</th><th class="px-4 py-2 text-left">Phone</th><th></th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Deliveries}}
            <tr>
                <td class="px-4 py-2">{{.CustomerName}}</td>
                <td class="px-4 py-2">{{.AddressName}}</td>
                <td class="px-4 py-2">〒{{.PostCode}} {{.Prefecture}}{{.Address1}} {{.Address2}}</td>
                <td class="px-4 py-2">{{.PhoneNumber}}</td>
                <td class="px-4 py-2 text-right">{{if $.Session.Can "deliveries.update"}}<a href="/delivery/{{.ID}}" class="text-indigo-600">Edit</a>{{end}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5" class="px-4 py-8 text-center text-gray-500">No delivery destinations found</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"deliveries/form": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .ID}}Edit delivery destination{{else}}New delivery destination{{end}}</h1>
{{$e := .Errors}}
<form method="POST" action="/delivery{{if .ID}}/{{.ID}}{{end}}" class="bg-white shadow rounded-lg p-6 grid grid-cols-2 gap-4 text-sm">
    <div class="col-span-2"><label>Customer</label>
        {{template "customer-select" dict "Customers" .Customers "Errors" $e "SelectedCustomer" .Form.CustomerID}}
    </div>
    <div><label>Name</label><input name="delivery_address_name" value="{{.Form.AddressName}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_address_name"}}">{{with fieldError $e "delivery_address_name"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Phone</label><input name="delivery_phone_number" value="{{.Form.PhoneNumber}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_phone_number"}}">{{with fieldError $e "delivery_phone_number"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Post code</label><input name="delivery_post_code" value="{{.Form.PostCode}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_post_code"}}">{{with fieldError $e "delivery_post_code"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Prefecture</label><input name="delivery_prefectures" value="{{.Form.Prefecture}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_prefectures"}}">{{with fieldError $e "delivery_prefectures"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Address</label><input name="delivery_address_1" value="{{.Form.Address1}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_address_1"}}">{{with fieldError $e "delivery_address_1"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div><label>Address 2</label><input name="delivery_address_2" value="{{.Form.Address2}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_address_2"}}">{{with fieldError $e "delivery_address_2"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
    <div class="col-span-2 flex justify-end space-x-2">
        <a href="/delivery" class="px-4 py-2 border rounded-md">Cancel</a>
        <button type="submit" class="px-4 py-2 rounded-md text-white bg-indigo-600">Save</button>
    </div>
</form>
{{end}}`,

	"reports/schedule": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">Delivery schedule</h1>
<form method="GET" class="flex flex-wrap gap-2 mb-4 text-sm">
    <input type="date" name="from" value="{{.Filter.From}}" class="px-3 py-2 border rounded-md">
    <span class="self-center">to</span>
    <input type="date" name="to" value="{{.Filter.To}}" class="px-3 py-2 border rounded-md">
    <select name="status" class="px-3 py-2 border rounded-md">
        <option value="">Any status</option>
        {{range .Statuses}}<option value="{{printf "%d" .}}" {{if statusSelected $.Filter.Status .}}selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button class="px-4 py-2 border rounded-md">Filter</button>
</form>
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Document</th><th class="px-4 py-2 text-left">Customer</th>
            <th class="px-4 py-2 text-left">Destination</th><th class="px-4 py-2 text-left">Date</th>
            <th class="px-4 py-2 text-right">Items</th><th class="px-4 py-2 text-left">Status</th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Entries}}
            <tr>
                <td class="px-4 py-2 font-mono">{{.DocumentNumber}}</td>
                <td class="px-4 py-2">{{.CustomerName}}</td>
                <td class="px-4 py-2">{{.AddressName}}</td>
                <td class="px-4 py-2">{{.DeliveryDate}}</td>
                <td class="px-4 py-2 text-right">{{comma .ItemCount}}</td>
                <td class="px-4 py-2"><span class="px-2 py-0.5 rounded-full text-xs {{statusColor .Status}}">{{.Status}}</span></td>
            </tr>
            {{else}}
            <tr><td colspan="6" class="px-4 py-8 text-center text-gray-500">Nothing scheduled</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"components/invoice-filter": `{{define "invoice-filter"}}
<form method="GET" class="bg-white shadow rounded-lg p-4 mb-4 grid grid-cols-4 gap-2 text-sm">
    <input name="customer_name" value="{{.Filter.CustomerName}}" placeholder="Customer name" class="col-span-2 px-3 py-2 border rounded-md">
    <label><input type="checkbox" name="category" value="1" {{if hasCategory .Filter.Categories 1}}checked{{end}}> Pickup</label>
    <label><input type="checkbox" name="category" value="2" {{if hasCategory .Filter.Categories 2}}checked{{end}}> Delivery</label>
    <label>Received</label>
    <input type="date" name="recept_date_from" value="{{.Filter.ReceptFrom}}" class="px-3 py-2 border rounded-md">
    <input type="date" name="recept_date_to" value="{{.Filter.ReceptTo}}" class="px-3 py-2 border rounded-md"><span></span>
    <label>Pickup</label>
    <input type="date" name="pickup_date_from" value="{{.Filter.PickupFrom}}" class="px-3 py-2 border rounded-md">
    <input type="date" name="pickup_date_to" value="{{.Filter.PickupTo}}" class="px-3 py-2 border rounded-md"><span></span>
    <label>Delivery</label>
    <input type="date" name="delivery_date_from" value="{{.Filter.DeliveryFrom}}" class="px-3 py-2 border rounded-md">
    <input type="date" name="delivery_date_to" value="{{.Filter.DeliveryTo}}" class="px-3 py-2 border rounded-md">
    <button class="px-4 py-2 border rounded-md">Search</button>
</form>
{{end}}`,

	"shipping/search": `{{define "content"}}
<div class="flex justify-between items-center mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">Shipping input</h1>
    <a href="/shipping-input/new" class="px-4 py-2 text-sm rounded-md text-white bg-indigo-600">New shipping input</a>
</div>
{{template "invoice-filter" .}}
{{if .Searched}}
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Document</th><th class="px-4 py-2 text-left">Customer</th>
            <th class="px-4 py-2 text-left">Category</th><th class="px-4 py-2 text-left">Received</th>
            <th class="px-4 py-2 text-right">Items</th><th></th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Results}}
            <tr>
                <td class="px-4 py-2 font-mono">{{.DocumentNumber}}</td>
                <td class="px-4 py-2">{{.CustomerName}}</td>
                <td class="px-4 py-2">{{.Category}}</td>
                <td class="px-4 py-2">{{.ReceptDate}}</td>
                <td class="px-4 py-2 text-right">{{comma .TotalItems}}</td>
                <td class="px-4 py-2 text-right space-x-2">
                    <a href="/shipping-input/{{.ID}}" class="text-indigo-600">Edit</a>
                    <a href="/shipping-input/new?copy={{.ID}}" class="text-indigo-600">Copy</a>
                </td>
            </tr>
            {{else}}
            <tr><td colspan="6" class="px-4 py-8 text-center text-gray-500">No shipping inputs match</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{end}}
{{end}}`,

	"shipping/form": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .ID}}Edit shipping input{{else}}New shipping input{{end}}</h1>
{{$e := .Errors}}
<form method="POST" action="/shipping-input{{if .ID}}/{{.ID}}{{end}}" class="space-y-6 text-sm">
    <div class="bg-white shadow rounded-lg p-6 grid grid-cols-3 gap-4">
        <div class="col-span-2"><label>Customer</label>
            {{template "customer-select" dict "Customers" .Customers "Errors" $e "SelectedCustomer" .Form.CustomerID}}
        </div>
        <div><label>Category</label>
            <select name="category" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "category"}}">
                {{range .Categories}}<option value="{{printf "%d" .}}" {{if eq . $.Form.Category}}selected{{end}}>{{.}}</option>{{end}}
            </select>
        </div>
        <div><label>Received</label><input type="date" name="recept_date" value="{{.Form.ReceptDate}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "recept_date"}}">{{with fieldError $e "recept_date"}}<p class="text-red-600">{{.}}</p>{{end}}</div>
        <div><label>Pickup date</label><input type="date" name="pickup_date" value="{{.Form.PickupDate}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup_date"}}"></div>
        <div><label>Delivery date</label><input type="date" name="delivery_date" value="{{.Form.DeliveryDate}}" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery_date"}}"></div>
    </div>
    <div class="grid grid-cols-2 gap-6">
        <div class="bg-white shadow rounded-lg p-6 space-y-3">
            <h2 class="font-medium">Pickup</h2>
            {{if .PickupLocations}}<datalist id="pickup-locations">{{range .PickupLocations}}<option value="{{.AddressName}}">{{.Address}}</option>{{end}}</datalist>{{end}}
            <input name="pickup.address_name" list="pickup-locations" value="{{.Form.Pickup.AddressName}}" placeholder="Name" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup.address_name"}}">
            <input name="pickup.address" value="{{.Form.Pickup.Address}}" placeholder="Address" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup.address"}}">
            <input name="pickup.phone_number" value="{{.Form.Pickup.PhoneNumber}}" placeholder="Phone" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "pickup.phone_number"}}">
            {{with fieldError $e "pickup.phone_number"}}<p class="text-red-600">{{.}}</p>{{end}}
        </div>
        <div class="bg-white shadow rounded-lg p-6 space-y-3">
            <h2 class="font-medium">Delivery</h2>
            {{if .DeliveryAddresses}}<datalist id="delivery-addresses">{{range .DeliveryAddresses}}<option value="{{.AddressName}}">{{.Address}}</option>{{end}}</datalist>{{end}}
            <input name="delivery.address_name" list="delivery-addresses" value="{{.Form.Delivery.AddressName}}" placeholder="Name" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery.address_name"}}">
            <input name="delivery.address" value="{{.Form.Delivery.Address}}" placeholder="Address" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery.address"}}">
            <input name="delivery.phone_number" value="{{.Form.Delivery.PhoneNumber}}" placeholder="Phone" class="block w-full border rounded-md px-3 py-2 {{inputClass $e "delivery.phone_number"}}">
            {{with fieldError $e "delivery.phone_number"}}<p class="text-red-600">{{.}}</p>{{end}}
        </div>
    </div>
    <div class="bg-white shadow rounded-lg p-6">
        <h2 class="font-medium mb-3">Parcels</h2>
        {{with fieldError $e "items"}}<p class="text-red-600 mb-2">{{.}}</p>{{end}}
        <table class="min-w-full">
            <thead><tr><th class="text-left">Size</th><th class="text-left">Weight</th><th class="text-left">Count</th><th class="text-left">Amount</th></tr></thead>
            <tbody>
                {{range $i, $it := .Form.Items}}
                <tr>
                    <td><select name="items.{{$i}}.size_id" class="border rounded-md px-2 py-1">{{range $.Sizes}}<option value="{{.ID}}" {{if eq .ID $it.SizeID}}selected{{end}}>{{.Name}}</option>{{end}}</select></td>
                    <td><select name="items.{{$i}}.weight_id" class="border rounded-md px-2 py-1">{{range $.Weights}}<option value="{{.ID}}" {{if eq .ID $it.WeightID}}selected{{end}}>{{.Name}}</option>{{end}}</select></td>
                    <td><input type="number" min="1" name="items.{{$i}}.item_number" value="{{$it.ItemNumber}}" class="w-20 border rounded-md px-2 py-1"></td>
                    <td><input name="items.{{$i}}.amount" value="{{$it.Amount}}" class="w-28 border rounded-md px-2 py-1"></td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    <div class="bg-white shadow rounded-lg p-6">
        <label>Note</label>
        <textarea name="note" rows="3" class="mt-1 block w-full border rounded-md px-3 py-2 {{inputClass $e "note"}}">{{.Form.Note}}</textarea>
    </div>
    <div class="flex justify-end space-x-2">
        <a href="/shipping-input" class="px-4 py-2 border rounded-md">Cancel</a>
        <button type="submit" class="px-4 py-2 rounded-md text-white bg-indigo-600">Save</button>
    </div>
</form>
{{end}}`,

	"shipping/requests": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">Pickup requests</h1>
<form method="GET" class="flex flex-wrap gap-2 mb-4 text-sm">
    <input name="customer_name" value="{{.Filter.CustomerName}}" placeholder="Customer name" class="px-3 py-2 border rounded-md">
    <input type="date" name="pickup_date_from" value="{{.Filter.PickupFrom}}" class="px-3 py-2 border rounded-md">
    <input type="date" name="pickup_date_to" value="{{.Filter.PickupTo}}" class="px-3 py-2 border rounded-md">
    <button class="px-4 py-2 border rounded-md">Search</button>
</form>
<div class="bg-white shadow rounded-lg overflow-hidden">
    <table class="min-w-full divide-y divide-gray-200 text-sm">
        <thead class="bg-gray-50"><tr>
            <th class="px-4 py-2 text-left">Document</th><th class="px-4 py-2 text-left">Customer</th>
            <th class="px-4 py-2 text-left">Pickup</th><th class="px-4 py-2 text-left">Pickup date</th>
            <th class="px-4 py-2 text-right">Items</th>
        </tr></thead>
        <tbody class="divide-y divide-gray-200">
            {{range .Requests}}
            <tr>
                <td class="px-4 py-2 font-mono">{{.DocumentNumber}}</td>
                <td class="px-4 py-2">{{.CustomerName}}</td>
                <td class="px-4 py-2">{{.Pickup.AddressName}}<div class="text-xs text-gray-500">{{.Pickup.Address}}</div></td>
                <td class="px-4 py-2">{{.PickupDate}}</td>
                <td class="px-4 py-2 text-right">{{comma .TotalItems}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5" class="px-4 py-8 text-center text-gray-500">No pickup requests</td></tr>
            {{end}}
        </tbody>
    </table>
</div>
{{template "pagination" .}}
{{end}}`,

	"scan": `{{define "content"}}
<h1 class="text-2xl font-semibold text-gray-900 mb-6">{{.Page.Title}}</h1>
<form method="POST" action="{{.Page.Action}}" class="bg-white shadow rounded-lg p-6 mb-6 flex items-end space-x-4">
    <div class="flex-1">
        <label for="code" class="block text-sm font-medium text-gray-700">Scan or type the document number</label>
        <input id="code" name="code" autofocus autocomplete="off" class="mt-1 block w-full border rounded-md px-3 py-3 text-lg font-mono {{if .Error}}border-red-500{{else}}border-gray-300{{end}}">
        {{with .Error}}<p class="mt-1 text-sm text-red-600">{{.}}</p>{{end}}
    </div>
    <button type="submit" class="px-6 py-3 rounded-md text-white bg-indigo-600">{{if .Page.Check}}Check{{else}}Record{{end}}</button>
</form>
{{with .Last}}
<div class="rounded-md p-4 mb-6 {{if .OK}}bg-green-50 text-green-800{{else}}bg-red-50 text-red-800{{end}}">
    <p class="font-mono text-lg">{{.DocumentNumber}}</p>
    <p class="text-sm">{{.Message}}</p>
</div>
{{end}}
<div class="bg-white shadow rounded-lg">
    <h2 class="px-4 py-3 border-b text-sm font-medium">Recent scans at this station</h2>
    <ul class="divide-y text-sm">
        {{range .Recent}}
        <li class="px-4 py-2 flex justify-between">
            <span class="font-mono">{{.DocumentNumber}}</span>
            <span class="{{if .OK}}text-green-600{{else}}text-red-600{{end}}">{{if .OK}}ok{{else}}{{truncate .Message 40}}{{end}}</span>
            <span class="text-gray-500">{{.Username}}</span>
            <span class="text-gray-500" title="{{formatTime .ScannedAt}}">{{timeAgo .ScannedAt}}</span>
        </li>
        {{else}}
        <li class="px-4 py-6 text-center text-gray-500">No scans yet</li>
        {{end}}
    </ul>
</div>
{{end}}`,
}
