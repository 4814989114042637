// Package templates maintains the property shapes of a template (a
// NodeShape). Property shapes may be shared between templates, so
// removing one from a template only destroys it when no other template
// still uses it.
package templates
