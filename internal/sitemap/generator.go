package sitemap

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultRecentPosts is how many posts the Recent Posts column shows.
	DefaultRecentPosts = 10

	// EmptyPlaceholder is shown in place of an empty listing.
	EmptyPlaceholder = "no data"

	rootClass = "sitemap-shortcode"
	heading   = "Sitemap"
	subtitle  = "An overview of everything published on the site."
)

// Generator renders a Dataset into the sitemap HTML fragment. Every string
// from the dataset reaches the output as an html.Node text or attribute
// value, so html.Render is the only place escaping happens.
type Generator struct {
	links  LinkBuilder
	policy URLPolicy
	recent int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLinks overrides the link builder.
func WithLinks(links LinkBuilder) GeneratorOption {
	return func(g *Generator) {
		if links != nil {
			g.links = links
		}
	}
}

// WithURLPolicy overrides the menu URL policy.
func WithURLPolicy(policy URLPolicy) GeneratorOption {
	return func(g *Generator) {
		g.policy = policy
	}
}

// WithRecentPosts changes how many posts the Recent Posts column lists.
func WithRecentPosts(count int) GeneratorOption {
	return func(g *Generator) {
		if count > 0 {
			g.recent = count
		}
	}
}

// NewGenerator constructs a generator with the fixed site links.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		links:  DefaultLinks{},
		policy: NewURLPolicy(),
		recent: DefaultRecentPosts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render is pure: the same dataset and options always produce the same
// markup. Collections render in load order.
func (g *Generator) Render(data Dataset, opts Options) string {
	root := element(atom.Div, "class", rootClassList(opts.ClassName))

	if opts.ShowTitle {
		header := element(atom.Div, "class", "sitemap-header")
		appendChildren(header,
			textElement(atom.H2, "sitemap-title", heading),
			textElement(atom.P, "sitemap-subtitle", subtitle),
		)
		root.AppendChild(header)
	}

	columns := element(atom.Div, "class", "sitemap-columns")
	appendChildren(columns,
		g.mainPagesColumn(data.Pages),
		g.categoriesColumn(data.Categories),
		g.recentPostsColumn(data.Posts),
	)
	root.AppendChild(columns)

	root.AppendChild(element(atom.Hr, "class", "sitemap-divider"))
	root.AppendChild(g.accordion(data.Categories, data.Posts))

	if len(data.Menus) > 0 {
		root.AppendChild(g.menusSection(data.Menus))
	}

	var out strings.Builder
	// strings.Builder never returns a write error.
	_ = html.Render(&out, root)
	return out.String()
}

func (g *Generator) mainPagesColumn(pages []Page) *html.Node {
	list := element(atom.Ul, "class", "sitemap-list")
	appendChildren(list,
		linkItem(g.links.Home(), "Home"),
		linkItem(g.links.Blog(), "Blog"),
		linkItem(g.links.Sitemap(), "Sitemap"),
	)
	for _, page := range pages {
		list.AppendChild(linkItem(g.links.Page(page.Slug), page.Title))
	}
	if len(pages) == 0 {
		list.AppendChild(textElement(atom.Li, "sitemap-empty", EmptyPlaceholder))
	}
	return column("sitemap-main-pages", "Main Pages", list)
}

func (g *Generator) categoriesColumn(categories []Category) *html.Node {
	if len(categories) == 0 {
		return column("sitemap-categories", "Categories", placeholder())
	}
	list := element(atom.Ul, "class", "sitemap-list")
	for _, category := range categories {
		list.AppendChild(linkItem(g.links.Category(category.ID), category.Name))
	}
	return column("sitemap-categories", "Categories", list)
}

func (g *Generator) recentPostsColumn(posts []Post) *html.Node {
	if len(posts) == 0 {
		return column("sitemap-recent-posts", "Recent Posts", placeholder())
	}
	if len(posts) > g.recent {
		posts = posts[:g.recent]
	}
	list := element(atom.Ul, "class", "sitemap-list")
	for _, post := range posts {
		list.AppendChild(linkItem(g.links.Post(post.Slug), post.Title))
	}
	return column("sitemap-recent-posts", "Recent Posts", list)
}

// accordion groups posts under every category whose name equals the post's
// category name exactly. Categories without posts are left out.
func (g *Generator) accordion(categories []Category, posts []Post) *html.Node {
	section := element(atom.Div, "class", "sitemap-accordion")
	section.AppendChild(textElement(atom.H3, "sitemap-section-title", "All Posts by Category"))

	entries := 0
	for _, category := range categories {
		var matched []Post
		for _, post := range posts {
			if post.CategoryName == category.Name {
				matched = append(matched, post)
			}
		}
		if len(matched) == 0 {
			continue
		}
		entries++

		item := element(atom.Details, "class", "sitemap-accordion-item", "data-category-id", category.ID)
		item.AppendChild(textElement(atom.Summary, "sitemap-accordion-header",
			category.Name+" ("+strconv.Itoa(len(matched))+")"))
		list := element(atom.Ul, "class", "sitemap-list")
		for _, post := range matched {
			list.AppendChild(linkItem(g.links.Post(post.Slug), post.Title))
		}
		item.AppendChild(list)
		section.AppendChild(item)
	}
	if entries == 0 {
		section.AppendChild(placeholder())
	}
	return section
}

func (g *Generator) menusSection(menus []Menu) *html.Node {
	section := element(atom.Div, "class", "sitemap-menus")
	section.AppendChild(textElement(atom.H3, "sitemap-section-title", "Menus"))
	for _, menu := range menus {
		block := element(atom.Div, "class", "sitemap-menu")
		block.AppendChild(textElement(atom.H4, "sitemap-menu-name", menu.Name))
		if len(menu.Items) == 0 {
			block.AppendChild(placeholder())
		} else {
			list := element(atom.Ul, "class", "sitemap-list")
			for _, item := range menu.Items {
				list.AppendChild(linkItem(g.policy.Href(item.URL), item.Title))
			}
			block.AppendChild(list)
		}
		section.AppendChild(block)
	}
	return section
}

func rootClassList(className string) string {
	className = strings.TrimSpace(className)
	if className == "" {
		return rootClass
	}
	return rootClass + " " + className
}

func column(class, title string, body *html.Node) *html.Node {
	node := element(atom.Div, "class", "sitemap-column "+class)
	node.AppendChild(textElement(atom.H3, "sitemap-column-title", title))
	node.AppendChild(body)
	return node
}

func placeholder() *html.Node {
	return textElement(atom.P, "sitemap-empty", EmptyPlaceholder)
}

func linkItem(href, label string) *html.Node {
	item := element(atom.Li, "class", "sitemap-item")
	link := element(atom.A, "href", href)
	link.AppendChild(text(label))
	item.AppendChild(link)
	return item
}

func textElement(tag atom.Atom, class, value string) *html.Node {
	node := element(tag, "class", class)
	node.AppendChild(text(value))
	return node
}

// element builds a node from alternating attribute keys and values.
func element(tag atom.Atom, attrs ...string) *html.Node {
	node := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		node.Attr = append(node.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return node
}

func text(value string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: value}
}

func appendChildren(parent *html.Node, children ...*html.Node) {
	for _, child := range children {
		parent.AppendChild(child)
	}
}
