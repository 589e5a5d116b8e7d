// Package crawler implements the site traversal: URL classification, the
// visited-set, and the bounded breadth-first walk over same-domain pages.
//
// The crawler fetches pages, hands HTML to the extract package, classifies
// discovered anchors, and accumulates page records. Traversal is driven by an
// explicit FIFO queue of (url, depth) items rather than recursion, which
// keeps the order deterministic and the call stack flat on large sites.
//
// Hard bounds guarantee termination: a global page cap, a per-page limit on
// followed internal links, and a per-page limit on extracted PDFs. The
// visited-set prevents loops on cyclic link graphs.
package crawler
