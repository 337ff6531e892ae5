package tracker

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// DOMEvent is the browser event a listener is registered for
type DOMEvent string

const (
	Click  DOMEvent = "click"
	Submit DOMEvent = "submit"
	Change DOMEvent = "change"
	Toggle DOMEvent = "toggle"
)

// Analytics event names sent to the sink
const (
	EventCTAClick         = "cta_click"
	EventJobClick         = "job_click"
	EventNewsletterSignup = "newsletter_signup"
	EventToolClick        = "tool_click"
	EventOutboundClick    = "outbound_click"
	EventFilterChange     = "filter_change"
	EventGlossaryClick    = "glossary_click"
	EventFAQExpand        = "faq_expand"
)

type rule struct {
	name   string
	on     DOMEvent
	match  matcher
	params func(el *html.Node, ev Event, pagePath string) map[string]string
}

// rules are registered in this order; an element matching several rules gets
// one independent listener per rule.
var rules = []rule{
	{
		name: EventCTAClick,
		on:   Click,
		match: anyOf(
			hasClass("btn--primary", "btn--secondary", "header__cta", "nav-cta", "btn-subscribe", "btn-gold", "btn"),
			tag("button"),
		),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"button_text": trimmedText(el, 60),
				"link_url":    attr(el, "href"),
				"page_path":   pagePath,
			}
		},
	},
	{
		name: EventJobClick,
		on:   Click,
		match: anyOf(
			hasClass("job-card"),
			all(tag("a"), within(hasClass("job-card__title"))),
			all(tag("a"), attrContains("href", "/jobs/")),
		),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"job_title": firstNonEmpty(el, jobTitleStrategies),
				"link_url":  attr(el, "href"),
				"page_path": pagePath,
			}
		},
	},
	{
		name: EventNewsletterSignup,
		on:   Submit,
		match: all(tag("form"), anyOf(
			within(hasClass("newsletter-cta")),
			hasClass("cta-section__form", "newsletter-form"),
			attrContains("action", "substack.com"),
		)),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"page_path": pagePath,
				"has_email": strconv.FormatBool(hasEmailValue(el)),
			}
		},
	},
	{
		name:  EventToolClick,
		on:    Click,
		match: all(tag("a"), within(hasClass("tool-card", "comparison-card", "cta-comparison__card"))),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"tool_name": trimmedText(el, 40),
				"link_url":  attr(el, "href"),
				"page_path": pagePath,
			}
		},
	},
	{
		name:  EventOutboundClick,
		on:    Click,
		match: all(tag("a"), attrEquals("target", "_blank")),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"link_text": trimmedText(el, 60),
				"link_url":  attr(el, "href"),
				"page_path": pagePath,
			}
		},
	},
	{
		name: EventFilterChange,
		on:   Change,
		match: all(
			tag("select", "input"),
			within(anyOf(hasClass("salary-filter", "filters"), classPrefix("filter-"))),
		),
		params: func(el *html.Node, ev Event, pagePath string) map[string]string {
			value := ev.Value
			if value == "" {
				value = controlValue(el)
			}
			return map[string]string{
				"filter_name":  filterName(el),
				"filter_value": value,
				"page_path":    pagePath,
			}
		},
	},
	{
		name:  EventGlossaryClick,
		on:    Click,
		match: all(tag("a"), attrContains("href", "/glossary/")),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"term":      trimmedText(el, 0),
				"link_url":  attr(el, "href"),
				"page_path": pagePath,
			}
		},
	},
	{
		name:  EventFAQExpand,
		on:    Toggle,
		match: tag("details"),
		params: func(el *html.Node, _ Event, pagePath string) map[string]string {
			return map[string]string{
				"question":  trimmedText(find(el, tag("summary")), 80),
				"page_path": pagePath,
			}
		},
	},
}

// EventNames lists every analytics event the tracker can emit
func EventNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// jobTitleStrategies resolve a job title in order; the first non-empty result wins
var jobTitleStrategies = []func(el *html.Node) string{
	// heading inside the card
	func(el *html.Node) string {
		return trimmedText(find(jobScope(el), tag("h1", "h2", "h3", "h4")), 0)
	},
	// explicit title element inside the card
	func(el *html.Node) string {
		return trimmedText(find(jobScope(el), hasClass("job-card__title")), 0)
	},
	func(el *html.Node) string {
		return trimmedText(el, 80)
	},
}

// jobScope is the closest job card around el, or el itself outside a card
func jobScope(el *html.Node) *html.Node {
	if card := closest(el, hasClass("job-card")); card != nil {
		return card
	}
	return el
}

func firstNonEmpty(el *html.Node, strategies []func(*html.Node) string) string {
	for _, s := range strategies {
		if v := s(el); v != "" {
			return v
		}
	}
	return ""
}

func hasEmailValue(form *html.Node) bool {
	input := find(form, all(tag("input"), anyOf(
		attrEquals("type", "email"),
		attrContains("name", "email"),
	)))
	return input != nil && strings.TrimSpace(attr(input, "value")) != ""
}

func filterName(el *html.Node) string {
	if name := attr(el, "name"); name != "" {
		return name
	}
	if id := attr(el, "id"); id != "" {
		return id
	}
	return "unknown"
}
