package alerting

import (
	"fmt"

	"safeguard/internal/models"
	"safeguard/internal/moderation"
)

// alertTemplate produces the parent-facing alert content for one
// category. Placeholders: child display name, sender name, source app.
type alertTemplate struct {
	title       func(child, sender, app string) string
	description func(child, sender, app string) string
	action      string
}

var alertTemplates = map[string]alertTemplate{
	moderation.CategorySuicidalIdeation: {
		title: func(child, sender, app string) string {
			return fmt.Sprintf("Possible suicidal ideation from %s", child)
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("Detected concerning language that may indicate suicidal thoughts in %s conversation with %s.", app, sender)
		},
		action: `Have a calm, non-judgmental conversation. Ask directly: "Are you thinking about hurting yourself?" If yes, stay with them and contact crisis resources.`,
	},
	moderation.CategorySelfHarm: {
		title: func(child, sender, app string) string {
			return fmt.Sprintf("Self-harm indicators from %s", child)
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("Message content suggests potential self-harm behavior in conversation with %s on %s.", sender, app)
		},
		action: "Approach with empathy. Express concern without judgment. Consider involving a mental health professional.",
	},
	moderation.CategoryGrooming: {
		title: func(child, sender, app string) string {
			return "Potential grooming behavior detected"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("%s received concerning messages from %s on %s that may indicate grooming behavior.", child, sender, app)
		},
		action: "Review the conversation together. Ask open questions about how they know this person. Consider blocking the contact and reporting to authorities if appropriate.",
	},
	moderation.CategoryCyberbullying: {
		title: func(child, sender, app string) string {
			return fmt.Sprintf("Cyberbullying detected involving %s", child)
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("Detected hurtful or threatening messages in %s conversation with %s.", app, sender)
		},
		action: "Listen to their experience. Document the messages. Contact school if involved. Consider reporting to the platform.",
	},
	moderation.CategorySexualContent: {
		title: func(child, sender, app string) string {
			return "Inappropriate sexual content"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("%s received or sent sexual content on %s.", child, app)
		},
		action: "Have an age-appropriate conversation about online safety and digital permanence. Review privacy settings.",
	},
	moderation.CategoryViolence: {
		title: func(child, sender, app string) string {
			return "Violence or threats detected"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("Detected violent language or threats in %s conversation with %s.", app, sender)
		},
		action: "Assess immediate safety. Take threats seriously. Contact school or authorities if needed.",
	},
	moderation.CategoryDrugs: {
		title: func(child, sender, app string) string {
			return "Drug or alcohol references"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("%s mentioned drugs or alcohol in conversation with %s on %s.", child, sender, app)
		},
		action: "Use as conversation starter about substance use. Maintain open communication about peer pressure.",
	},
	moderation.CategoryHateSpeech: {
		title: func(child, sender, app string) string {
			return "Hate speech detected"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("Detected discriminatory or hateful language from %s or directed at them on %s.", child, app)
		},
		action: "Discuss respect and inclusion. Address underlying issues. Set clear expectations about language.",
	},
	moderation.CategoryInappropriateLanguage: {
		title: func(child, sender, app string) string {
			return "Inappropriate language"
		},
		description: func(child, sender, app string) string {
			return fmt.Sprintf("%s used or received inappropriate language on %s.", child, app)
		},
		action: "Address based on context and your family values. Use as teaching moment about appropriate communication.",
	},
}

// generateContent renders the title, description and suggested action for
// an alert. Unknown categories fall back to the inappropriate_language
// template.
func generateContent(category string, message *models.Message, child *models.Child) (title, description, action string) {
	sender := message.SenderName
	if sender == "" {
		sender = "Unknown"
	}
	app := message.SourceApp
	if app == "" {
		app = "messaging app"
	}

	tmpl, ok := alertTemplates[category]
	if !ok {
		tmpl = alertTemplates[moderation.CategoryInappropriateLanguage]
	}

	return tmpl.title(child.DisplayName, sender, app),
		tmpl.description(child.DisplayName, sender, app),
		tmpl.action
}
