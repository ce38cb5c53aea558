// Package http serves the academy site over a chi router.
//
// Routes:
//   - Public JSON under /api/public: /categories, /posts, /posts/{slug},
//     /pages, /menus. Collections answer {"<name>": [...]} and accept a
//     limit query parameter where noted.
//   - Admin JSON under /admin/api: /categories, /posts, /pages and /menus
//     CRUD, /menus/{id}/items, /shortcodes/validate, /shortcodes/preview,
//     /cache/invalidate.
//   - HTML: /, /blog, /post/{slug}, /sitemap and /{slug}. Bodies render
//     Markdown first and expand shortcodes second.
//   - /metrics when a metrics handler is configured.
package http
