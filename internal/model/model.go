// Package model defines the records exchanged with the mgen REST API.
package model

// Collection names as used in /api/<collection> and as the record key of a
// collection response.
const (
	CollectionProjects  = "projects"
	CollectionItems     = "items"
	CollectionTemplates = "templates"
	CollectionPages     = "pages"
	CollectionSlugs     = "slugs"
)

// Collections lists every collection the console knows about.
var Collections = []string{
	CollectionProjects,
	CollectionItems,
	CollectionTemplates,
	CollectionPages,
	CollectionSlugs,
}

// KnownCollection reports whether name is one of Collections.
func KnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ProjectOptions are the generator switches of a project.
type ProjectOptions struct {
	EnableRobots  bool `json:"enable_robots"`
	EnableSitemap bool `json:"enable_sitemap"`
}

// Project is a static website under construction.
type Project struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	PublicBaseURI string         `json:"public_base_uri"`
	Options       ProjectOptions `json:"options"`
	Members       []string       `json:"members,omitempty"`
	Items         []string       `json:"items,omitempty"`
	Templates     []string       `json:"templates,omitempty"`
	Slugs         []string       `json:"slugs,omitempty"`
	Pages         []string       `json:"pages,omitempty"`
}

// Deployable reports whether the project has a generated slug to deploy.
func (p Project) Deployable() bool { return len(p.Slugs) > 0 }

// Item is a piece of content.
type Item struct {
	ID        string   `json:"id,omitempty"`
	ProjectID string   `json:"project_id"`
	Name      string   `json:"name"`
	URIPath   string   `json:"uri_path"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
	PublishOn string   `json:"publish_on,omitempty"` // dd-mm-yyyy
	Body      string   `json:"body"`
}

// TemplateParam is a named input of a template.
type TemplateParam struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

// Template renders pages.
type Template struct {
	ID         string          `json:"id,omitempty"`
	ProjectID  string          `json:"project_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	DoImport   bool            `json:"do_import"`
	ImportFrom string          `json:"import_from,omitempty"`
	Data       string          `json:"data,omitempty"`
	Params     []TemplateParam `json:"params"`
}

// Page binds a template to a path.
type Page struct {
	ID         string            `json:"id,omitempty"`
	ProjectID  string            `json:"project_id"`
	TemplateID string            `json:"template_id"`
	Path       string            `json:"path"`
	Params     map[string]string `json:"params"`
}

// Slug is a generated snapshot of a project.
type Slug struct {
	ID        string `json:"id"`
	ProjectID string `json:"project"`
	Created   string `json:"created"`
	CreatedBy string `json:"created_by"`
	Size      int64  `json:"size"`
}
