// Package markdown renders post and page bodies to sanitized HTML and imports
// front-matter Markdown files from disk as posts.
package markdown
