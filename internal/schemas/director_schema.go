package schemas

import (
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// SchemaName is the name the director response schema is registered under.
const SchemaName = "director_response"

// DirectorResponseSchema declares the shape the generation service must return.
// Every field is required and no extra properties are allowed.
func DirectorResponseSchema() jsonschema.Definition {
	visuals := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"camera_movement": {
				Type:        jsonschema.String,
				Description: "Description of camera movement (e.g., slow dolly in, handheld tracking)",
			},
			"angle": {
				Type:        jsonschema.String,
				Description: "Camera angle (e.g., low angle, birds-eye view, dutch angle)",
			},
			"lighting": {
				Type:        jsonschema.String,
				Description: "Lighting setup (e.g., high contrast chiaroscuro, soft diffused morning light)",
			},
			"lens_choice": {
				Type:        jsonschema.String,
				Description: "Lens choice (e.g., 35mm anamorphic, 85mm portrait, fisheye)",
			},
		},
		Required:             []string{"camera_movement", "angle", "lighting", "lens_choice"},
		AdditionalProperties: false,
	}

	cut := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"sequence": {
				Type:        jsonschema.Integer,
				Description: "The order of the cut",
			},
			"title": {
				Type:        jsonschema.String,
				Description: "Short title for this 8-second segment",
			},
			"action_description": {
				Type: jsonschema.String,
				Description: "Narrative description of what happens. If dialogue occurs, you MUST use the format: " +
					"CHARACTER NAME: \"Line of dialogue\". Ensure it is obvious who is speaking.",
			},
			"visuals": visuals,
			"generated_prompt": {
				Type: jsonschema.String,
				Description: "A highly detailed, optimized prompt for an AI video generator. " +
					"Include all visual details, camera specs, and style keywords.",
			},
		},
		Required:             []string{"sequence", "title", "action_description", "visuals", "generated_prompt"},
		AdditionalProperties: false,
	}

	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title": {
				Type:        jsonschema.String,
				Description: "A catchy title for the video sequence",
			},
			"logline": {
				Type:        jsonschema.String,
				Description: "A one-sentence summary of the entire sequence",
			},
			"mood": {
				Type:        jsonschema.String,
				Description: "The overall mood/atmosphere (e.g., Cyberpunk Noir, Wes Anderson Whimsy)",
			},
			"cuts": {
				Type:  jsonschema.Array,
				Items: &cut,
			},
		},
		Required:             []string{"title", "logline", "mood", "cuts"},
		AdditionalProperties: false,
	}
}

// ToGenaiSchema converts a definition into the Gemini schema type. Property
// ordering follows the Required list so the model emits fields in declaration order.
func ToGenaiSchema(def jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Type:        genaiType(def.Type),
		Description: def.Description,
	}
	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			s.Properties[name] = ToGenaiSchema(prop)
		}
		s.Required = append([]string(nil), def.Required...)
		s.PropertyOrdering = append([]string(nil), def.Required...)
	}
	if def.Items != nil {
		s.Items = ToGenaiSchema(*def.Items)
	}
	return s
}

func genaiType(t jsonschema.DataType) genai.Type {
	switch t {
	case jsonschema.Object:
		return genai.TypeObject
	case jsonschema.Array:
		return genai.TypeArray
	case jsonschema.Integer:
		return genai.TypeInteger
	case jsonschema.Number:
		return genai.TypeNumber
	case jsonschema.Boolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
