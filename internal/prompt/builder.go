// Package prompt turns questionnaire answers into the text that gets embedded.
package prompt

import (
	"strings"

	"github.com/thebtf/inkmatch/pkg/models"
)

// Heading opens every non-empty prompt.
const Heading = "Tattoo design preferences and requirements:"

const (
	experienceFirstTime   = "First tattoo - looking for something meaningful yet approachable, possibly starting smaller"
	experienceExperienced = "Experienced with tattoos - open to more complex and bold designs"
)

// descriptionTier maps a pre-classified slider description to its sentence.
// A description matches when it contains Match.
type descriptionTier struct {
	Match string
	Text  string
}

// numericTiers holds the sentences for the <25, <50, <75 and >=75 buckets.
type numericTiers [4]string

func (n numericTiers) pick(v float64) string {
	switch {
	case v < 25:
		return n[0]
	case v < 50:
		return n[1]
	case v < 75:
		return n[2]
	default:
		return n[3]
	}
}

// slider describes one description-first, numeric-fallback question.
type slider struct {
	Label        string
	Descriptions []descriptionTier
	// Fallback is used when a description is present but matches no tier.
	// An empty Fallback sends unmatched descriptions to the numeric path.
	Fallback string
	Numeric  numericTiers
}

// text resolves the sentence for a slider. The description wins over the
// numeric value whenever it resolves to a sentence.
func (s slider) text(description string, level models.Level) string {
	if d := strings.TrimSpace(description); d != "" {
		for _, tier := range s.Descriptions {
			if strings.Contains(d, tier.Match) {
				return tier.Text
			}
		}
		if s.Fallback != "" {
			return s.Fallback
		}
	}
	if level.Valid {
		return s.Numeric.pick(level.Value)
	}
	return ""
}

const (
	sizeSmall       = "Small and delicate design - minimal, subtle, intimate. Keywords: fine-line, delicate, minimal, small, subtle."
	sizeMedium      = "Medium-sized design - noticeable but not overwhelming. Keywords: refined, elegant, balanced, moderate, statement piece."
	sizeMediumSmall = "Medium-small design - noticeable but not overwhelming. Keywords: refined, elegant, balanced, moderate."
	sizeMediumLarge = "Medium-large design - substantial presence. Keywords: bold, statement piece, prominent, impactful."
	sizeLarge       = "Large and bold design - major commitment, full coverage. Keywords: large, bold, dramatic, powerful, expansive."
)

var sizeSlider = slider{
	Label: "Size",
	Descriptions: []descriptionTier{
		{Match: "Small", Text: sizeSmall},
		{Match: "Medium", Text: sizeMedium},
	},
	Fallback: sizeLarge,
	Numeric:  numericTiers{sizeSmall, sizeMediumSmall, sizeMediumLarge, sizeLarge},
}

const (
	visibilityPrivate    = "Private and personal - design should be intimate, hidden, personal significance. Keywords: private, intimate, hidden, personal."
	visibilitySelective  = "Selectively visible - can be shown or hidden depending on context. Keywords: versatile, discreet, adaptable."
	visibilityModerate   = "Moderately visible - comfortable being seen in most settings. Keywords: visible, confident, expressive."
	visibilityClear      = "Clearly visible - makes a statement. Keywords: bold, prominent, statement, expressive, visible."
	visibilityUnmissable = "Highly visible and bold - embracing tattoo as public expression. Keywords: bold, prominent, statement, expressive, visible, unmissable."
	visibilityHigh       = "Highly visible and bold - embracing tattoo as public expression. Keywords: bold, prominent, statement, expressive, visible."
)

var visibilitySlider = slider{
	Label: "Visibility",
	Descriptions: []descriptionTier{
		{Match: "Completely private", Text: visibilityPrivate},
		{Match: "Subtle and personal", Text: visibilitySelective},
		{Match: "Moderately visible", Text: visibilityModerate},
		{Match: "Clearly visible", Text: visibilityClear},
		{Match: "Bold and unmissable", Text: visibilityUnmissable},
	},
	Numeric: numericTiers{visibilityPrivate, visibilitySelective, visibilityModerate, visibilityHigh},
}

const (
	meaningVisual   = "Visual impact first - aesthetic beauty, artistic expression, visual appeal over symbolism. Keywords: aesthetic, beautiful, artistic, visual, decorative."
	meaningBalanced = "Balanced approach - design should be both beautiful and meaningful. Keywords: balanced, aesthetic with meaning, thoughtful."
	meaningFocused  = "Meaning-focused - symbolism and personal significance are important. Keywords: symbolic, meaningful, personal, significant."
	meaningDeep     = "Deep meaning required - tattoo must carry profound personal or spiritual significance. Keywords: spiritual, profound, symbolic, philosophical, meaningful, sacred."
)

var meaningSlider = slider{
	Label: "Meaning",
	Descriptions: []descriptionTier{
		{Match: "Bold visual statement", Text: meaningVisual},
		{Match: "Balanced approach", Text: meaningBalanced},
		{Match: "Deep personal meaning", Text: meaningDeep},
	},
	Numeric: numericTiers{meaningVisual, meaningBalanced, meaningFocused, meaningDeep},
}

const (
	styleOrganic    = "Organic and chaotic - free-flowing, natural, expressive, spontaneous designs. Keywords: organic, chaotic, flowing, natural, abstract, expressionist, wild, free."
	styleBalanced   = "Balanced structure - mix of organic and structured elements. Keywords: balanced, harmonious, natural with structure, versatile."
	styleStructured = "Structured and orderly - clean lines, intentional composition. Keywords: structured, clean, precise, orderly, defined."
	styleGeometric  = "Highly geometric and ordered - mathematical precision, sacred geometry, perfect symmetry. Keywords: geometric, precise, mathematical, sacred geometry, symmetrical, minimal, ordered."
)

var chaosOrderSlider = slider{
	Label: "Style",
	Descriptions: []descriptionTier{
		{Match: "Organic and free-flowing", Text: styleOrganic},
		{Match: "Balanced structure", Text: styleBalanced},
		{Match: "Precise and geometric", Text: styleGeometric},
	},
	Numeric: numericTiers{styleOrganic, styleBalanced, styleStructured, styleGeometric},
}

// placementContext is keyed by the questionnaire's body part values.
var placementContext = map[string]string{
	"arm":      "Versatile canvas, good for both detailed and bold designs",
	"leg":      "Great for larger pieces, allows vertical or wrapping compositions",
	"back":     "Large canvas perfect for expansive, detailed artwork",
	"chest":    "Intimate placement, often chosen for deeply meaningful designs",
	"shoulder": "Dynamic area, works well for pieces that flow with body movement",
	"ribs":     "Personal and hidden, often chosen for deeply personal designs",
	"neck":     "Highly visible, bold statement placement",
	"hand":     "Very visible, requires careful design consideration",
	"foot":     "Delicate area, suited for smaller, artistic pieces",
}

// PlacementContext returns the fixed context sentence for a body part.
// The lookup is exact apart from surrounding whitespace.
func PlacementContext(bodyPart string) (string, bool) {
	s, ok := placementContext[strings.TrimSpace(bodyPart)]
	return s, ok
}

// Build assembles the embedding prompt for resp.
//
// Paragraph order is fixed: experience, size, placement, visibility, meaning,
// chaos/order, lettering, personal vision, additional details, spoken
// description, visual references. Missing answers contribute nothing, and a
// response with no answers yields "".
func Build(resp models.UserResponse) string {
	var paragraphs []string
	add := func(p string) {
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	add(experienceParagraph(resp.TattooExperience))
	add(sliderParagraph(sizeSlider, resp.SizeDescription, resp.Size))
	add(placementParagraph(resp.CustomBodyPart, resp.BodyPart))
	add(sliderParagraph(visibilitySlider, resp.VisibilityDescription, resp.Visibility))
	add(sliderParagraph(meaningSlider, resp.MeaningDescription, resp.MeaningLevel))
	add(sliderParagraph(chaosOrderSlider, resp.ChaosOrderDescription, resp.ChaosOrder))

	if lettering := strings.TrimSpace(resp.CustomLettering); lettering != "" {
		add(`Lettering/Text element: "` + lettering + `"`)
	}
	add(freeText("Personal vision", resp.UserInput))
	add(freeText("Additional details", resp.CustomText))
	add(freeText("Spoken description", resp.VoiceTranscript))
	add(freeText("Visual references and mood", resp.MoodboardDescription))

	if len(paragraphs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Heading)
	sb.WriteString("\n\n")
	for _, p := range paragraphs {
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

func experienceParagraph(experience string) string {
	switch strings.TrimSpace(experience) {
	case "":
		return ""
	case models.ExperienceFirstTime:
		return experienceFirstTime
	default:
		return experienceExperienced
	}
}

func sliderParagraph(s slider, description string, level models.Level) string {
	text := s.text(description, level)
	if text == "" {
		return ""
	}
	return s.Label + ": " + text
}

func placementParagraph(custom, bodyPart string) string {
	placement := strings.TrimSpace(custom)
	if placement == "" {
		placement = strings.TrimSpace(bodyPart)
	}
	if placement == "" {
		return ""
	}

	p := "Placement: " + placement + "."
	if ctx, ok := PlacementContext(placement); ok {
		p += " " + ctx
	}
	return p
}

func freeText(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return label + ": " + value
}
