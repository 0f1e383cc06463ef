package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/session"
)

const (
	teaTypeGreen  = "Green Tea"
	teaTypeBlack  = "Black Tea"
	teaTypeOolong = "Oolong Tea"
	teaTypeWhite  = "White Tea"

	caffeineLevelVeryLow = "Very Low"
	caffeineLevelLow     = "Low"
	caffeineLevelMedium  = "Medium"
	caffeineLevelHigh    = "High"

	toolGetTeaNames        = "getTeaNames"
	toolGetTeaInfo         = "getTeaInfo"
	toolGetTeasByType      = "getTeasByType"
	toolRequestCustomBlend = "requestCustomBlend"

	teaMenuResourceURI = "menu://tea"
	teaTemplate        = "tea://{name}"
)

// Tea describes one entry in the sample tea catalog this package registers.
type Tea struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Origin      string  `json:"origin"`
	Caffeine    string  `json:"caffeine"`
	Flavor      string  `json:"flavor"`
	Temperature int     `json:"temperature"`
	SteepTime   string  `json:"steepTime"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

var teaMenu = map[string]Tea{
	"dragonwell": {
		Name:        "Dragonwell",
		Type:        teaTypeGreen,
		Origin:      "China",
		Caffeine:    caffeineLevelMedium,
		Flavor:      "Delicate, sweet, nutty",
		Temperature: 175,
		SteepTime:   "2-3 minutes",
		Description: "A classic Chinese green tea with a smooth, mellow flavor and beautiful flat leaves.",
		Price:       8.50,
	},
	"earl-grey": {
		Name:        "Earl Grey",
		Type:        teaTypeBlack,
		Origin:      "England",
		Caffeine:    caffeineLevelHigh,
		Flavor:      "Citrusy, bergamot, bold",
		Temperature: 212,
		SteepTime:   "3-5 minutes",
		Description: "A traditional English black tea infused with bergamot oil for a distinctive citrus aroma.",
		Price:       7.00,
	},
	"da-hong-pao": {
		Name:        "Da Hong Pao",
		Type:        teaTypeOolong,
		Origin:      "China",
		Caffeine:    caffeineLevelMedium,
		Flavor:      "Complex, roasted, fruity",
		Temperature: 200,
		SteepTime:   "1-2 minutes",
		Description: "A legendary Chinese oolong with a rich, complex flavor and beautiful amber liquor.",
		Price:       15.00,
	},
	"white-peony": {
		Name:        "White Peony",
		Type:        teaTypeWhite,
		Origin:      "China",
		Caffeine:    caffeineLevelLow,
		Flavor:      "Subtle, floral, sweet",
		Temperature: 185,
		SteepTime:   "4-6 minutes",
		Description: "A delicate white tea with silvery buds and a light, refreshing taste.",
		Price:       12.00,
	},
	"gyokuro": {
		Name:        "Gyokuro",
		Type:        teaTypeGreen,
		Origin:      "Japan",
		Caffeine:    caffeineLevelHigh,
		Flavor:      "Umami, sweet, vegetal",
		Temperature: 140,
		SteepTime:   "1-2 minutes",
		Description: "Premium Japanese green tea grown in shade, producing a rich umami flavor.",
		Price:       18.00,
	},
	"assam": {
		Name:        "Assam",
		Type:        teaTypeBlack,
		Origin:      "India",
		Caffeine:    caffeineLevelHigh,
		Flavor:      "Malty, robust, brisk",
		Temperature: 212,
		SteepTime:   "3-5 minutes",
		Description: "A full-bodied Indian black tea perfect for breakfast and pairs well with milk.",
		Price:       6.50,
	},
	"tie-guan-yin": {
		Name:        "Tie Guan Yin",
		Type:        teaTypeOolong,
		Origin:      "China",
		Caffeine:    caffeineLevelMedium,
		Flavor:      "Floral, orchid-like, smooth",
		Temperature: 195,
		SteepTime:   "1-3 minutes",
		Description: "Iron Goddess of Mercy - a premium Chinese oolong with floral notes and lasting sweetness.",
		Price:       13.50,
	},
	"silver-needle": {
		Name:        "Silver Needle",
		Type:        teaTypeWhite,
		Origin:      "China",
		Caffeine:    caffeineLevelVeryLow,
		Flavor:      "Delicate, honey, fresh",
		Temperature: 175,
		SteepTime:   "5-7 minutes",
		Description: "The most prized white tea made from young buds, offering exceptional delicacy and sweetness.",
		Price:       22.00,
	},
}

// RegisterTeaCatalog populates reg with a sample catalog - tools, a static
// resource, a resource template, and prompts - all registered through the
// public builder API rather than a discovery mechanism. It stands in for
// whatever a host application contributes at startup.
func RegisterTeaCatalog(reg *registry.Registry) error {
	if err := registerTeaTools(reg); err != nil {
		return fmt.Errorf("handlers: registering tea tools: %w", err)
	}
	if err := registerTeaResources(reg); err != nil {
		return fmt.Errorf("handlers: registering tea resources: %w", err)
	}
	if err := registerTeaPrompts(reg); err != nil {
		return fmt.Errorf("handlers: registering tea prompts: %w", err)
	}
	return nil
}

func registerTeaTools(reg *registry.Registry) error {
	if err := reg.RegisterTool(mcp.ToolSpec{
		Name:        toolGetTeaNames,
		Description: "Get a list of all available tea names in our collection",
		InputSchema: mcp.InputSchema{Type: "object", Properties: map[string]any{}},
	}, registry.OriginManual, handleGetTeaNames); err != nil {
		return err
	}

	if err := reg.RegisterTool(mcp.ToolSpec{
		Name:        toolGetTeaInfo,
		Description: "Get detailed information about a specific tea including brewing instructions",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "The name of the tea (e.g., 'dragonwell', 'earl-grey')",
				},
			},
			Required: []string{"name"},
		},
	}, registry.OriginManual, handleGetTeaInfo); err != nil {
		return err
	}

	if err := reg.RegisterTool(mcp.ToolSpec{
		Name:        toolGetTeasByType,
		Description: "Get all teas of a specific type (Green Tea, Black Tea, Oolong Tea, White Tea)",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]any{
				"type": map[string]any{
					"type":        "string",
					"enum":        []any{teaTypeGreen, teaTypeBlack, teaTypeOolong, teaTypeWhite},
					"description": "The tea type (e.g., 'Green Tea', 'Black Tea', 'Oolong Tea', 'White Tea')",
				},
			},
			Required: []string{"type"},
		},
	}, registry.OriginManual, handleGetTeasByType); err != nil {
		return err
	}

	return reg.RegisterTool(mcp.ToolSpec{
		Name:        toolRequestCustomBlend,
		Description: "Start a custom tea blend order built on a named base tea, asking the client to elicit the drinker's sweetness and strength preferences before the order is placed",
		InputSchema: mcp.InputSchema{
			Type: "object",
			Properties: map[string]any{
				"baseTea": map[string]any{
					"type":        "string",
					"description": "The catalog key of the base tea to build the blend from (e.g., 'dragonwell')",
				},
			},
			Required: []string{"baseTea"},
		},
	}, registry.OriginManual, handleRequestCustomBlend)
}

func handleGetTeaNames(ctx context.Context, args map[string]any) (mcp.ToolResult, error) {
	names := make([]string, 0, len(teaMenu))
	for key := range teaMenu {
		names = append(names, key)
	}
	sort.Strings(names)

	result, err := json.Marshal(names)
	if err != nil {
		return mcp.ToolResult{}, fmt.Errorf("failed to marshal tea names: %w", err)
	}
	return mcp.ToolResult{Content: []mcp.ContentItem{mcp.TextContent(string(result))}}, nil
}

func handleGetTeaInfo(ctx context.Context, args map[string]any) (mcp.ToolResult, error) {
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.ToolResult{}, fmt.Errorf("name parameter is required and must be a string")
	}

	tea, exists := teaMenu[name]
	if !exists {
		return mcp.ToolResult{Content: []mcp.ContentItem{
			mcp.TextContent(fmt.Sprintf("Tea '%s' not found in our collection", name)),
		}}, nil
	}

	result, err := json.Marshal(tea)
	if err != nil {
		return mcp.ToolResult{}, fmt.Errorf("failed to marshal tea info: %w", err)
	}
	return mcp.ToolResult{Content: []mcp.ContentItem{mcp.TextContent(string(result))}}, nil
}

func handleGetTeasByType(ctx context.Context, args map[string]any) (mcp.ToolResult, error) {
	teaType, ok := args["type"].(string)
	if !ok || teaType == "" {
		return mcp.ToolResult{}, fmt.Errorf("type parameter is required and must be a string")
	}

	var matching []Tea
	for _, tea := range teaMenu {
		if tea.Type == teaType {
			matching = append(matching, tea)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].Name < matching[j].Name })

	if len(matching) == 0 {
		return mcp.ToolResult{Content: []mcp.ContentItem{
			mcp.TextContent(fmt.Sprintf("No teas found of type '%s'", teaType)),
		}}, nil
	}

	result, err := json.Marshal(matching)
	if err != nil {
		return mcp.ToolResult{}, fmt.Errorf("failed to marshal teas by type: %w", err)
	}
	return mcp.ToolResult{Content: []mcp.ContentItem{mcp.TextContent(string(result))}}, nil
}

// handleRequestCustomBlend starts a custom blend order. It cannot collect
// the drinker's preferences itself - that requires a round trip to the
// human on the other end of the client - so it queues an elicitation
// request on the calling session's outbound channel and returns
// immediately, leaving the client to prompt the user and reply later on
// its own initiative.
func handleRequestCustomBlend(ctx context.Context, args map[string]any) (mcp.ToolResult, error) {
	baseTea, ok := args["baseTea"].(string)
	if !ok || baseTea == "" {
		return mcp.ToolResult{}, fmt.Errorf("baseTea parameter is required and must be a string")
	}
	if _, exists := teaMenu[baseTea]; !exists {
		return mcp.ToolResult{}, fmt.Errorf("tea '%s' not found in our collection", baseTea)
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return mcp.ToolResult{}, fmt.Errorf("requestCustomBlend requires an active session")
	}

	sess.Enqueue(mcp.NewElicitationCreateRequest(elicitationRequestID(sess, baseTea), mcp.ElicitationRequest{
		Prompt: fmt.Sprintf("Customizing a blend based on %s - how sweet and how strong would you like it?", baseTea),
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sweetness": map[string]any{"type": "string", "enum": []any{"none", "light", "medium", "sweet"}},
				"strength":  map[string]any{"type": "string", "enum": []any{"light", "medium", "strong"}},
			},
			"required": []any{"sweetness", "strength"},
		},
	}))

	return mcp.ToolResult{Content: []mcp.ContentItem{
		mcp.TextContent(fmt.Sprintf("Started a custom blend order based on %s - check your client for a preferences prompt.", baseTea)),
	}}, nil
}

// elicitationRequestID gives each queued elicitation request a stable,
// distinguishable JSON-RPC id scoped to the session issuing it.
func elicitationRequestID(sess *session.Session, baseTea string) string {
	return fmt.Sprintf("elicit-%s-%s", sess.ID, baseTea)
}

func registerTeaResources(reg *registry.Registry) error {
	if err := reg.RegisterResource(mcp.ResourceSpec{
		URI:      teaMenuResourceURI,
		Name:     "Tea Menu",
		MimeType: "application/json",
	}, registry.OriginManual, handleReadTeaMenu); err != nil {
		return err
	}

	if err := reg.RegisterTemplate(mcp.TemplateSpec{
		URITemplate: teaTemplate,
		Name:        "Tea Detail",
		Description: "Brewing and tasting notes for a single tea by its catalog key",
		MimeType:    "application/json",
	}, registry.OriginManual, handleReadTeaTemplate); err != nil {
		return err
	}

	return reg.RegisterTemplateCompletion(teaTemplate, "name", completeTeaName)
}

func handleReadTeaMenu(ctx context.Context, uri string) (mcp.ResourceResult, error) {
	menuData, err := json.MarshalIndent(teaMenu, "", "  ")
	if err != nil {
		return mcp.ResourceResult{}, fmt.Errorf("failed to marshal tea menu: %w", err)
	}
	return mcp.ResourceResult{Contents: []mcp.ResourceContent{
		{URI: uri, MimeType: "application/json", Text: string(menuData)},
	}}, nil
}

func handleReadTeaTemplate(ctx context.Context, uri string, vars map[string]string) (mcp.ResourceResult, error) {
	tea, exists := teaMenu[vars["name"]]
	if !exists {
		return mcp.ResourceResult{}, fmt.Errorf("tea '%s' not found in our collection", vars["name"])
	}
	data, err := json.Marshal(tea)
	if err != nil {
		return mcp.ResourceResult{}, fmt.Errorf("failed to marshal tea: %w", err)
	}
	return mcp.ResourceResult{Contents: []mcp.ResourceContent{
		{URI: uri, MimeType: "application/json", Text: string(data)},
	}}, nil
}

// completeTeaName suggests catalog keys prefix-matching the partially typed
// value, for the "name" variable of the tea://{name} template.
func completeTeaName(ctx context.Context, argument, value string) ([]string, error) {
	var out []string
	for key := range teaMenu {
		if strings.HasPrefix(key, value) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func registerTeaPrompts(reg *registry.Registry) error {
	if err := reg.RegisterPrompt(mcp.PromptSpec{
		Name:        "tea_recommendation",
		Description: "Get personalized tea recommendations based on preferences",
		Arguments: []mcp.PromptArgument{
			{Name: "mood", Description: "Current mood or desired effect (e.g., 'energizing', 'relaxing', 'focus')"},
			{Name: "caffeine_preference", Description: "Caffeine level preference (e.g., 'high', 'medium', 'low', 'none')"},
			{Name: "flavor_profile", Description: "Preferred flavor profile (e.g., 'floral', 'robust', 'delicate', 'complex')"},
		},
	}, registry.OriginManual, generateTeaRecommendation); err != nil {
		return err
	}

	if err := reg.RegisterPrompt(mcp.PromptSpec{
		Name:        "brewing_guide",
		Description: "Get detailed brewing instructions for a specific tea",
		Arguments: []mcp.PromptArgument{
			{Name: "tea_name", Description: "Name of the tea to get brewing instructions for", Required: true},
		},
	}, registry.OriginManual, generateBrewingGuide); err != nil {
		return err
	}

	if err := reg.RegisterPrompt(mcp.PromptSpec{
		Name:        "tea_pairing",
		Description: "Get food pairing suggestions for a specific tea",
		Arguments: []mcp.PromptArgument{
			{Name: "tea_name", Description: "Name of the tea to get pairing suggestions for", Required: true},
		},
	}, registry.OriginManual, generateTeaPairing); err != nil {
		return err
	}

	return reg.RegisterPromptCompletion("brewing_guide", "tea_name", completeTeaName)
}

func generateTeaRecommendation(ctx context.Context, args map[string]string) (mcp.PromptResult, error) {
	mood := args["mood"]
	caffeinePreference := args["caffeine_preference"]
	flavorProfile := args["flavor_profile"]

	prompt := "Based on our tea collection, here are some recommendations:\n\n"
	if mood != "" {
		prompt += moodRecommendations(mood)
	}
	if caffeinePreference != "" {
		prompt += caffeineRecommendations(caffeinePreference)
	}
	if flavorProfile != "" {
		prompt += flavorRecommendations(flavorProfile)
	}

	return promptResult(prompt), nil
}

func moodRecommendations(mood string) string {
	prompt := fmt.Sprintf("For a %s mood:\n", mood)
	switch mood {
	case "energizing":
		prompt += "- Gyokuro (high caffeine, umami flavor)\n- Assam (robust, perfect morning tea)\n"
	case "relaxing":
		prompt += "- White Peony (low caffeine, delicate)\n- Silver Needle (very low caffeine, honey notes)\n"
	case "focus":
		prompt += "- Earl Grey (bergamot aids concentration)\n- Da Hong Pao (complex flavors for mindful drinking)\n"
	}
	return prompt + "\n"
}

func caffeineRecommendations(caffeinePreference string) string {
	prompt := fmt.Sprintf("For %s caffeine preference:\n", caffeinePreference)
	switch caffeinePreference {
	case "high":
		prompt += "- Gyokuro, Earl Grey, Assam\n"
	case "medium":
		prompt += "- Dragonwell, Da Hong Pao, Tie Guan Yin\n"
	case "low":
		prompt += "- White Peony\n"
	case "none", "very low":
		prompt += "- Silver Needle\n"
	}
	return prompt + "\n"
}

func flavorRecommendations(flavorProfile string) string {
	prompt := fmt.Sprintf("For %s flavor profile:\n", flavorProfile)
	switch flavorProfile {
	case "floral":
		prompt += "- Tie Guan Yin (orchid-like), White Peony (subtle floral)\n"
	case "robust":
		prompt += "- Assam (malty), Earl Grey (bold bergamot)\n"
	case "delicate":
		prompt += "- Silver Needle (honey sweetness), Dragonwell (gentle nuttiness)\n"
	case "complex":
		prompt += "- Da Hong Pao (roasted, fruity), Gyokuro (umami depth)\n"
	}
	return prompt
}

func generateBrewingGuide(ctx context.Context, args map[string]string) (mcp.PromptResult, error) {
	teaName := args["tea_name"]
	if teaName == "" {
		return mcp.PromptResult{}, fmt.Errorf("tea_name is required for brewing guide")
	}
	tea, exists := teaMenu[teaName]
	if !exists {
		return mcp.PromptResult{}, fmt.Errorf("tea '%s' not found in our collection", teaName)
	}

	prompt := fmt.Sprintf(`# Brewing Guide for %s

## Tea Information
- **Type**: %s
- **Origin**: %s
- **Caffeine Level**: %s

## Brewing Instructions
- **Water Temperature**: %d°F
- **Steeping Time**: %s
- **Flavor Profile**: %s

## Tips
%s

Enjoy your perfectly brewed %s!`,
		tea.Name, tea.Type, tea.Origin, tea.Caffeine,
		tea.Temperature, tea.SteepTime, tea.Flavor,
		tea.Description, tea.Name)

	return promptResult(prompt), nil
}

func generateTeaPairing(ctx context.Context, args map[string]string) (mcp.PromptResult, error) {
	teaName := args["tea_name"]
	if teaName == "" {
		return mcp.PromptResult{}, fmt.Errorf("tea_name is required for pairing suggestions")
	}
	tea, exists := teaMenu[teaName]
	if !exists {
		return mcp.PromptResult{}, fmt.Errorf("tea '%s' not found in our collection", teaName)
	}

	pairings := teaPairings(tea.Type)
	prompt := fmt.Sprintf(`# Food Pairings for %s

## Tea Profile
- **Type**: %s
- **Flavor**: %s
- **Origin**: %s

## Recommended Pairings
%s

## Why These Pairings Work
The %s characteristics of %s complement these foods perfectly, creating a harmonious tasting experience.

Price: $%.2f`,
		tea.Name, tea.Type, tea.Flavor, tea.Origin,
		pairings, tea.Flavor, tea.Name, tea.Price)

	return promptResult(prompt), nil
}

func teaPairings(teaType string) string {
	switch teaType {
	case teaTypeGreen:
		return "Light appetizers, sushi, steamed vegetables, mild cheeses, fruit tarts"
	case teaTypeBlack:
		return "Breakfast pastries, chocolate desserts, hearty sandwiches, aged cheeses, spiced foods"
	case teaTypeOolong:
		return "Roasted nuts, grilled seafood, dim sum, stone fruits, semi-hard cheeses"
	case teaTypeWhite:
		return "Fresh fruits, light salads, delicate pastries, soft cheeses, cucumber sandwiches"
	default:
		return "Light snacks and mild flavors that won't overpower the tea"
	}
}

func promptResult(text string) mcp.PromptResult {
	return mcp.PromptResult{
		Messages: []mcp.PromptMessage{
			{Role: "user", Content: mcp.MessageContent{Type: "text", Text: text}},
		},
	}
}
