package generator

import (
	"fmt"
	"strings"
)

// systemInstruction sets the director role and the continuity and dialogue rules.
const systemInstruction = `You are a world-class film director and cinematographer.
Break the raw video concept you receive into a sequence of "8-second cuts". Each cut is self-contained and flows logically into the next.

CONTINUITY RULES:
- Visual consistency: character appearance (clothing, hair, features), environment details and lighting style stay the same across all cuts unless the story explicitly changes them. Never invent new outfits or settings.
- Narrative flow: the action of each cut starts where the previous cut ended.
- Restate location: every 'generated_prompt' MUST restate the full environment and location details, even if the location has not changed. The video generator only sees one prompt at a time and never knows the location from a previous cut.

DIALOGUE RULES:
- Spoken lines MUST be written exactly as CHARACTER NAME: "Dialogue".
- The character name is always uppercase, e.g. JOHN: "Hello there.".

For every cut provide:
1. The camera movement, angle, lighting and lens choice, using professional terminology.
2. A 'generated_prompt' optimized for high-end AI video generation models: descriptive, visual and with style modifiers.`

// buildUserPrompt renders the user content. The character directive is added
// only when a non-blank name is given.
func buildUserPrompt(idea string, characterName *string) string {
	prompt := "The video concept is: " + idea
	if name := normalizeName(characterName); name != "" {
		prompt += fmt.Sprintf("\n\nIMPORTANT: The main character's name is \"%s\". "+
			"You MUST refer to them by this name in all Action Descriptions, Dialogue, and Generated Prompts. "+
			"Ensure they are the primary focus.", name)
	}
	return prompt
}

func normalizeName(characterName *string) string {
	if characterName == nil {
		return ""
	}
	return strings.TrimSpace(*characterName)
}
