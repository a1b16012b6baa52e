package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/thebtf/inkmatch/pkg/models"
)

// BuilderSuite is a test suite for prompt construction.
type BuilderSuite struct {
	suite.Suite
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) TestEmptyResponse() {
	s.Equal("", Build(models.UserResponse{}))
}

func (s *BuilderSuite) TestWhitespaceOnlyFieldsAreAbsent() {
	resp := models.UserResponse{
		TattooExperience: "   ",
		BodyPart:         " ",
		CustomLettering:  "\t",
		UserInput:        "\n",
		CustomText:       "  ",
	}
	s.Equal("", Build(resp))
}

func (s *BuilderSuite) TestDeterministic() {
	resp := models.UserResponse{
		TattooExperience:      models.ExperienceExperienced,
		Size:                  models.NewLevel(60),
		BodyPart:              "back",
		VisibilityDescription: "Clearly visible",
		MeaningLevel:          models.NewLevel(10),
		ChaosOrder:            models.NewLevel(40),
		CustomLettering:       "amor fati",
		UserInput:             "a wolf under the moon",
	}

	first := Build(resp)
	for i := 0; i < 10; i++ {
		s.Equal(first, Build(resp))
	}
}

func (s *BuilderSuite) TestHeadingAndTrailingWhitespace() {
	out := Build(models.UserResponse{CustomText: "roses"})
	s.True(strings.HasPrefix(out, Heading+"\n\n"))
	s.Equal(strings.TrimSpace(out), out)
	s.True(strings.HasSuffix(out, "Additional details: roses"))
}

func (s *BuilderSuite) TestFirstTimeExample() {
	out := Build(models.UserResponse{
		TattooExperience: "first-time",
		SizeDescription:  "Small and dainty",
		BodyPart:         "wrist",
	})

	s.Contains(out, experienceFirstTime)
	s.Contains(out, "Size: "+sizeSmall)
	s.Contains(out, "Keywords: fine-line, delicate, minimal, small, subtle.")
	s.Contains(out, "Placement: wrist.")
	s.NotContains(out, "Placement: wrist. ")
}

func (s *BuilderSuite) TestExperiencedSentence() {
	out := Build(models.UserResponse{TattooExperience: "experienced"})
	s.Contains(out, experienceExperienced)
	s.NotContains(out, experienceFirstTime)
}

func (s *BuilderSuite) TestSizeDescriptionWinsOverNumeric() {
	out := Build(models.UserResponse{
		SizeDescription: "Medium - noticeable",
		Size:            models.NewLevel(90),
	})
	s.Contains(out, sizeMedium)
	s.NotContains(out, sizeLarge)
	s.NotContains(out, sizeMediumLarge)
}

func (s *BuilderSuite) TestUnknownSizeDescriptionIsLarge() {
	out := Build(models.UserResponse{SizeDescription: "Huge", Size: models.NewLevel(5)})
	s.Contains(out, sizeLarge)
	s.NotContains(out, sizeSmall)
}

func (s *BuilderSuite) TestNumericBuckets() {
	tests := []struct {
		name  string
		level float64
		want  string
	}{
		{"zero", 0, sizeSmall},
		{"just below 25", 24.9, sizeSmall},
		{"25 inclusive", 25, sizeMediumSmall},
		{"49", 49, sizeMediumSmall},
		{"50 inclusive", 50, sizeMediumLarge},
		{"74", 74, sizeMediumLarge},
		{"75 inclusive", 75, sizeLarge},
		{"100", 100, sizeLarge},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			out := Build(models.UserResponse{Size: models.NewLevel(tt.level)})
			s.Contains(out, "Size: "+tt.want)
		})
	}
}

func (s *BuilderSuite) TestChaosOrderFourthTier() {
	out := Build(models.UserResponse{ChaosOrder: models.NewLevel(80)})
	s.Contains(out, "Style: "+styleGeometric)
	s.Equal(1, strings.Count(out, "Highly geometric and ordered"))
	s.NotContains(out, styleStructured)
}

func (s *BuilderSuite) TestChaosOrderDescriptions() {
	s.Contains(Build(models.UserResponse{ChaosOrderDescription: "Organic and free-flowing"}), styleOrganic)
	s.Contains(Build(models.UserResponse{ChaosOrderDescription: "Balanced structure"}), styleBalanced)
	s.Contains(Build(models.UserResponse{ChaosOrderDescription: "Precise and geometric"}), styleGeometric)
}

func (s *BuilderSuite) TestVisibilityDescriptionTiers() {
	tests := map[string]string{
		"Completely private":           visibilityPrivate,
		"Subtle and personal":          visibilitySelective,
		"Moderately visible":           visibilityModerate,
		"Clearly visible":              visibilityClear,
		"Bold and unmissable - neck!!": visibilityUnmissable,
	}
	for desc, want := range tests {
		s.Run(desc, func() {
			s.Contains(Build(models.UserResponse{VisibilityDescription: desc}), "Visibility: "+want)
		})
	}
}

func (s *BuilderSuite) TestVisibilityNumericTopTierDiffersFromDescription() {
	out := Build(models.UserResponse{Visibility: models.NewLevel(99)})
	s.Contains(out, visibilityHigh)
	s.NotContains(out, "unmissable")
}

func (s *BuilderSuite) TestUnmatchedDescriptionFallsBackToNumeric() {
	out := Build(models.UserResponse{
		MeaningDescription: "something else",
		MeaningLevel:       models.NewLevel(60),
	})
	s.Contains(out, "Meaning: "+meaningFocused)

	out = Build(models.UserResponse{MeaningDescription: "something else"})
	s.Equal("", out)
}

func (s *BuilderSuite) TestMeaningDescriptions() {
	s.Contains(Build(models.UserResponse{MeaningDescription: "Bold visual statement"}), meaningVisual)
	s.Contains(Build(models.UserResponse{MeaningDescription: "Balanced approach"}), meaningBalanced)
	s.Contains(Build(models.UserResponse{MeaningDescription: "Deep personal meaning"}), meaningDeep)
}

func (s *BuilderSuite) TestPlacementOverride() {
	out := Build(models.UserResponse{BodyPart: "arm", CustomBodyPart: "behind the ear"})
	s.Contains(out, "Placement: behind the ear.")
	s.NotContains(out, "Placement: arm")
	s.NotContains(out, placementContext["arm"])
}

func (s *BuilderSuite) TestPlacementOverrideWithKnownPart() {
	out := Build(models.UserResponse{BodyPart: "arm", CustomBodyPart: "ribs"})
	s.Contains(out, "Placement: ribs. "+placementContext["ribs"])
}

func (s *BuilderSuite) TestPlacementLookupIsCaseSensitive() {
	out := Build(models.UserResponse{BodyPart: "Arm"})
	s.True(strings.HasSuffix(out, "Placement: Arm."))
	s.NotContains(out, placementContext["arm"])
}

func (s *BuilderSuite) TestPlacementContextTable() {
	for part, ctx := range placementContext {
		s.Run(part, func() {
			s.Contains(Build(models.UserResponse{BodyPart: part}), "Placement: "+part+". "+ctx)
		})
	}
}

func (s *BuilderSuite) TestParagraphOrder() {
	out := Build(models.UserResponse{
		MoodboardDescription: "moody greys",
		VoiceTranscript:      "spoken words",
		CustomText:           "extra details",
		UserInput:            "my vision",
		CustomLettering:      "hope",
		ChaosOrder:           models.NewLevel(10),
		MeaningLevel:         models.NewLevel(10),
		Visibility:           models.NewLevel(10),
		BodyPart:             "leg",
		Size:                 models.NewLevel(10),
		TattooExperience:     "first-time",
	})

	markers := []string{
		experienceFirstTime,
		"Size: ",
		"Placement: leg.",
		"Visibility: ",
		"Meaning: ",
		"Style: ",
		`Lettering/Text element: "hope"`,
		"Personal vision: my vision",
		"Additional details: extra details",
		"Spoken description: spoken words",
		"Visual references and mood: moody greys",
	}

	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		s.Require().GreaterOrEqual(idx, 0, "missing %q", m)
		s.Greater(idx, last, "%q out of order", m)
		last = idx
	}
}

func (s *BuilderSuite) TestParagraphsSeparatedByBlankLine() {
	out := Build(models.UserResponse{UserInput: "a", CustomText: "b"})
	s.Equal(Heading+"\n\nPersonal vision: a\n\nAdditional details: b", out)
}

func TestPlacementContext(t *testing.T) {
	ctx, ok := PlacementContext(" shoulder ")
	assert.True(t, ok)
	assert.Equal(t, placementContext["shoulder"], ctx)

	_, ok = PlacementContext("Shoulder")
	assert.False(t, ok)

	_, ok = PlacementContext("wrist")
	assert.False(t, ok)
}
