package authform

import (
	"github.com/goliatone/go-router"
)

// TemplateUserKey holds the signed in user in view contexts
var TemplateUserKey = "current_user"

// ViewContext flattens a View into template data. The django templates
// switch on "view_kind".
//
//	{% if view_kind == "link-account" %} ... {% else %}
//	  {% for field in fields %}{{ field.label }}{% endfor %}
//	{% endif %}
func ViewContext(view View) router.ViewContext {
	data := router.ViewContext{
		"view_kind": string(view.Kind()),
		"title":     view.Title(),
		"subtitle":  view.Subtitle(),
	}

	switch v := view.(type) {
	case FormView:
		fields := make([]map[string]any, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, map[string]any{
				"name":        f.Name,
				"label":       f.Label,
				"placeholder": f.Placeholder,
				"type":        f.InputType,
				"value":       templateValue(f),
				"error":       f.Error,
			})
		}
		data["variant"] = string(v.Variant)
		data["fields"] = fields
		data["errors"] = v.Errors
		data["submitting"] = v.Submitting
		data["submit_label"] = v.SubmitLabel()
		data["footer_prompt"] = v.FooterPrompt()
		data["footer_label"] = v.FooterLinkLabel()
		data["form_action"] = "/" + string(v.Variant)
		data["footer_href"] = "/" + string(v.Variant.Alternate())
	case LinkAccountView:
		data["user"] = v.User
		data[TemplateUserKey] = v.User
	}

	return data
}

// passwords are never echoed back into the form
func templateValue(f FieldInput) string {
	if f.InputType == "password" || f.Name == FieldSSN {
		return ""
	}
	return f.Value
}

// MergeViewContext copies extra keys over base, extra wins.
func MergeViewContext(base router.ViewContext, extra router.ViewContext) router.ViewContext {
	out := make(router.ViewContext, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
