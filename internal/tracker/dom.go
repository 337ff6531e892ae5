package tracker

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// matcher selects elements the way a CSS selector group would
type matcher func(n *html.Node) bool

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

func tag(names ...string) matcher {
	return func(n *html.Node) bool {
		if !isElement(n) {
			return false
		}
		for _, name := range names {
			if n.Data == name {
				return true
			}
		}
		return false
	}
}

func hasClass(classes ...string) matcher {
	return func(n *html.Node) bool {
		if !isElement(n) {
			return false
		}
		for _, token := range strings.Fields(attr(n, "class")) {
			for _, c := range classes {
				if token == c {
					return true
				}
			}
		}
		return false
	}
}

// classPrefix matches an element with a class token starting with prefix, e.g. .filter-*
func classPrefix(prefixes ...string) matcher {
	return func(n *html.Node) bool {
		if !isElement(n) {
			return false
		}
		for _, token := range strings.Fields(attr(n, "class")) {
			for _, prefix := range prefixes {
				if strings.HasPrefix(token, prefix) {
					return true
				}
			}
		}
		return false
	}
}

func attrContains(key, sub string) matcher {
	return func(n *html.Node) bool {
		v, ok := lookupAttr(n, key)
		return ok && strings.Contains(v, sub)
	}
}

func attrEquals(key, want string) matcher {
	return func(n *html.Node) bool {
		v, ok := lookupAttr(n, key)
		return ok && v == want
	}
}

func all(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return isElement(n)
	}
}

func anyOf(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// within matches a node that has a proper ancestor matching m (descendant combinator)
func within(m matcher) matcher {
	return func(n *html.Node) bool {
		if n == nil {
			return false
		}
		return closest(n.Parent, m) != nil
	}
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	if !isElement(n) {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// closest walks from n up through its ancestors, n included
func closest(n *html.Node, m matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if m(n) {
			return n
		}
	}
	return nil
}

// find returns the first descendant of n in document order matching m
func find(n *html.Node, m matcher) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// walk visits n and every descendant in document order
func walk(n *html.Node, visit func(*html.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	})
	return b.String()
}

// trimmedText is the element's text content without surrounding whitespace,
// cut to max runes when max > 0
func trimmedText(n *html.Node, max int) string {
	return truncate(strings.TrimSpace(textContent(n)), max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// SetAttr sets or replaces an attribute, e.g. to reflect a control's live value
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// controlValue reads the current value of an input or select element
func controlValue(n *html.Node) string {
	if !tag("select")(n) {
		return attr(n, "value")
	}
	option := find(n, all(tag("option"), func(o *html.Node) bool {
		_, ok := lookupAttr(o, "selected")
		return ok
	}))
	if option == nil {
		option = find(n, tag("option"))
	}
	if option == nil {
		return ""
	}
	if v, ok := lookupAttr(option, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(option))
}
