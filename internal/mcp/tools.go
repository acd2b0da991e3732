package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/H4M5TER/steaminfo/internal/plugin"
	"github.com/H4M5TER/steaminfo/internal/render"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

// SearchGamesTool queries the storefront suggestion endpoint.
type SearchGamesTool struct {
	store *steam.Client
}

func (t *SearchGamesTool) Name() string { return "search_games" }

func (t *SearchGamesTool) Description() string {
	return "Search the Steam storefront for games matching a term. Returns candidates in relevance order."
}

func (t *SearchGamesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"term": map[string]interface{}{
				"type":        "string",
				"description": "Search term, e.g. a game name",
			},
		},
		"required": []string{"term"},
	}
}

func (t *SearchGamesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	term := getStringArg(args, "term")
	if term == "" {
		return nil, fmt.Errorf("term is required")
	}

	candidates, err := t.store.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, map[string]interface{}{
			"app_id": c.AppID,
			"name":   c.Name,
		})
	}
	return map[string]interface{}{
		"success": true,
		"count":   len(results),
		"results": results,
	}, nil
}

// GameInfoTool renders the textual summary for an app id.
type GameInfoTool struct {
	renderer plugin.Renderer
}

func (t *GameInfoTool) Name() string { return "game_info" }

func (t *GameInfoTool) Description() string {
	return "Fetch name, price, release date, developers and review summary for a Steam app id."
}

func (t *GameInfoTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"app_id": map[string]interface{}{
				"type":        "string",
				"description": "Numeric Steam app id, e.g. 570",
			},
			"mode": map[string]interface{}{
				"type":        "string",
				"description": "text or composite; composite includes the header image URL",
				"enum":        []string{"text", "composite"},
			},
		},
		"required": []string{"app_id"},
	}
}

func (t *GameInfoTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	appID := getStringArg(args, "app_id")
	if appID == "" {
		return nil, fmt.Errorf("app_id is required")
	}

	mode := render.ModeText
	if getStringArg(args, "mode") == "composite" {
		mode = render.ModeComposite
	}

	msg, err := t.renderer.Render(ctx, appID, mode)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"success": true,
		"app_id":  appID,
		"text":    msg.Text,
	}
	if msg.ImageURL != "" {
		result["header_image"] = msg.ImageURL
	}
	return result, nil
}

// GameScreenshotTool captures the store page's detail panel for an app id.
type GameScreenshotTool struct {
	renderer plugin.Renderer
}

func (t *GameScreenshotTool) Name() string { return "game_screenshot" }

func (t *GameScreenshotTool) Description() string {
	return "Screenshot the detail panel of a game's store page. Requires a configured browser; falls back to composite text otherwise."
}

func (t *GameScreenshotTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"app_id": map[string]interface{}{
				"type":        "string",
				"description": "Numeric Steam app id, e.g. 570",
			},
		},
		"required": []string{"app_id"},
	}
}

func (t *GameScreenshotTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	appID := getStringArg(args, "app_id")
	if appID == "" {
		return nil, fmt.Errorf("app_id is required")
	}

	msg, err := t.renderer.Render(ctx, appID, render.ModeScreenshot)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"success": true,
		"app_id":  appID,
	}
	if len(msg.Image) > 0 {
		result["mime"] = msg.MIME
		result["image_base64"] = base64.StdEncoding.EncodeToString(msg.Image)
	} else {
		result["text"] = msg.Text
		if msg.ImageURL != "" {
			result["header_image"] = msg.ImageURL
		}
	}
	return result, nil
}

func getStringArg(args map[string]interface{}, key string) string {
	val, ok := args[key]
	if !ok {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
