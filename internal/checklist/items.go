package checklist

import (
	"fmt"
	"strings"
)

// categoryGenerator gates one category behind its keyword list and builds
// that category's items from the lowercased document text. Generators run
// in a fixed order so item ids are stable for a given document.
type categoryGenerator struct {
	name     string
	keywords []string
	build    func(lower string, reqs []string) []Item
}

var generators = []categoryGenerator{
	{
		name: "Documentation",
		keywords: []string{
			"certificate", "license", "permit", "registration", "document",
			"proof", "evidence", "record", "report", "statement", "form",
			"application", "copy", "signed", "notarized",
		},
		build: documentationItems,
	},
	{
		name: "Technical Requirements",
		keywords: []string{
			"specification", "technical", "requirement", "standard", "quality",
			"performance", "capacity", "feature", "function", "design",
			"equipment", "software", "hardware", "system",
		},
		build: technicalItems,
	},
	{
		name: "Financial",
		keywords: []string{
			"budget", "cost", "price", "financial", "payment", "invoice",
			"estimate", "quote", "bid", "tender amount", "bank guarantee",
			"funding", "grant", "sponsorship", "revenue",
		},
		build: financialItems,
	},
	{
		name: "Timeline & Delivery",
		keywords: []string{
			"deadline", "delivery", "timeline", "schedule", "completion",
			"milestone", "duration", "period", "date", "time frame",
			"start date", "end date", "due",
		},
		build: timelineItems,
	},
	{
		name: "Legal & Compliance",
		keywords: []string{
			"legal", "compliance", "regulation", "law", "policy", "procedure",
			"agreement", "contract", "terms", "conditions", "liability",
			"insurance", "bond", "coverage",
		},
		build: legalItems,
	},
	{
		name: "Experience & Qualifications",
		keywords: []string{
			"experience", "qualification", "expertise", "skill", "competency",
			"track record", "portfolio", "reference", "testimonial", "cv",
			"resume", "background", "history",
		},
		build: experienceItems,
	},
	{
		name: "Contact & Communication",
		keywords: []string{
			"contact", "phone", "email", "address", "communication",
			"representative", "coordinator", "manager", "director",
		},
		build: contactItems,
	},
	{
		name: "Submission Requirements",
		keywords: []string{
			"submit", "submission", "format", "copies", "original", "signed",
			"sealed", "envelope", "proposal", "tender submission", "deadline",
		},
		build: submissionItems,
	},
}

func categoryPriority(name string) string {
	switch name {
	case "Documentation", "Financial", "Legal & Compliance", "Submission Requirements":
		return "high"
	case "Technical Requirements", "Timeline & Delivery":
		return "medium"
	}
	return "low"
}

// trigger maps a cluster of document words to one item text. The item is
// emitted when any word in the cluster appears in the document.
type trigger struct {
	words []string
	text  string
}

// itemize builds sequentially numbered items for the triggers that fire.
func itemize(lower, prefix string, triggers []trigger, priority string, hours int) []Item {
	var items []Item
	for _, t := range triggers {
		if !containsAny(lower, t.words...) {
			continue
		}
		items = append(items, Item{
			ID:             fmt.Sprintf("%s_%d", prefix, len(items)+1),
			Text:           t.text,
			Priority:       priority,
			EstimatedHours: hours,
			Attachments:    []string{},
		})
	}
	return items
}

func documentationItems(lower string, reqs []string) []Item {
	items := itemize(lower, "doc", []trigger{
		{[]string{"certificate", "certification"}, "Obtain all required certificates and certifications"},
		{[]string{"license", "permit"}, "Gather current licenses and permits"},
		{[]string{"registration", "company"}, "Prepare company registration documents"},
		{[]string{"form", "application"}, "Complete all required forms and applications"},
		{[]string{"copy", "copies", "original"}, "Prepare required number of document copies"},
	}, "high", 2)

	// Extracted requirements that mention paperwork get their own items.
	for _, req := range reqs {
		if !containsAny(strings.ToLower(req), "certificate", "document", "proof", "record", "form") {
			continue
		}
		items = append(items, Item{
			ID:             fmt.Sprintf("doc_%d", len(items)+1),
			Text:           "Address requirement: " + req,
			Priority:       "high",
			EstimatedHours: 3,
			Notes:          "Specific requirement from document: " + req,
			Attachments:    []string{},
		})
	}
	return items
}

func technicalItems(lower string, _ []string) []Item {
	return itemize(lower, "tech", []trigger{
		{[]string{"specification", "technical", "system"}, "Review all technical specifications and requirements"},
		{[]string{"equipment", "hardware", "software"}, "Verify technical capacity and equipment requirements"},
		{[]string{"standard", "quality", "performance"}, "Ensure compliance with quality and performance standards"},
	}, "high", 4)
}

func financialItems(lower string, _ []string) []Item {
	return itemize(lower, "fin", []trigger{
		{[]string{"budget", "cost", "funding"}, "Prepare detailed budget breakdown"},
		{[]string{"grant", "funding", "sponsorship"}, "Calculate total funding request amount"},
		{[]string{"bank", "guarantee", "security"}, "Arrange bank guarantee or security bond"},
		{[]string{"payment", "invoice", "financial"}, "Review payment terms and financial obligations"},
	}, "high", 3)
}

func timelineItems(lower string, _ []string) []Item {
	return itemize(lower, "time", []trigger{
		{[]string{"deadline", "due", "submit"}, "Note all submission deadlines and due dates"},
		{[]string{"timeline", "schedule", "milestone"}, "Create project timeline with key milestones"},
		{[]string{"start", "begin", "commence"}, "Confirm project start date and initial requirements"},
		{[]string{"completion", "finish", "end"}, "Plan for project completion and final deliverables"},
	}, "medium", 2)
}

func legalItems(lower string, _ []string) []Item {
	return itemize(lower, "legal", []trigger{
		{[]string{"legal", "law", "regulation"}, "Review all legal requirements and regulations"},
		{[]string{"contract", "agreement", "terms"}, "Understand contract terms and conditions"},
		{[]string{"insurance", "liability", "coverage"}, "Verify insurance coverage and liability requirements"},
	}, "high", 3)
}

func experienceItems(lower string, _ []string) []Item {
	return itemize(lower, "exp", []trigger{
		{[]string{"experience", "background", "history"}, "Document relevant experience and track record"},
		{[]string{"qualification", "skill", "competency"}, "Prepare team qualifications and skills documentation"},
		{[]string{"reference", "testimonial", "portfolio"}, "Gather references and testimonials"},
	}, "medium", 4)
}

func contactItems(lower string, _ []string) []Item {
	return itemize(lower, "contact", []trigger{
		{[]string{"contact", "phone", "email"}, "Update all contact information and details"},
		{[]string{"representative", "coordinator", "manager"}, "Identify key contacts and representatives"},
	}, "low", 1)
}

func submissionItems(lower string, _ []string) []Item {
	return itemize(lower, "sub", []trigger{
		{[]string{"submit", "submission", "deadline"}, "Prepare final submission package"},
		{[]string{"format", "copies", "signed"}, "Ensure correct submission format and signatures"},
		{[]string{"deadline", "due date", "closing"}, "Confirm submission deadline and delivery method"},
	}, "high", 2)
}
