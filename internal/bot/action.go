package bot

import "strings"

// ActionKind enumerates the recognized user intents.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMenu
	ActionCategories
	ActionCategory
	ActionAll
	ActionRefresh
	ActionStoreInfo
	ActionHelp
)

func (k ActionKind) String() string {
	switch k {
	case ActionMenu:
		return "menu"
	case ActionCategories:
		return "categories"
	case ActionCategory:
		return "category"
	case ActionAll:
		return "all"
	case ActionRefresh:
		return "refresh"
	case ActionStoreInfo:
		return "store_info"
	case ActionHelp:
		return "help"
	default:
		return "none"
	}
}

// Action is a resolved user intent. Category carries the name-or-id argument
// for ActionCategory.
type Action struct {
	Kind     ActionKind
	Category string
}

// Callback tokens carried in the interactive controls the router emits.
const (
	cbMenu           = "menu"
	cbCategories     = "categories"
	cbCategoryPrefix = "category:"
	cbAll            = "all"
	cbRefresh        = "refresh"
	cbStoreInfo      = "store_info"
	cbHelp           = "help"
)

// ParseAction resolves an inbound message into an Action. A callback token
// (tap on a control we sent) takes priority over free text; unrecognized
// input resolves to ActionNone and is ignored.
func ParseAction(text, callback string) Action {
	if callback != "" {
		switch callback {
		case cbMenu, "main_menu":
			return Action{Kind: ActionMenu}
		case cbCategories, "back_categories":
			return Action{Kind: ActionCategories}
		case cbAll, "category_all":
			return Action{Kind: ActionAll}
		case cbRefresh:
			return Action{Kind: ActionRefresh}
		case cbStoreInfo:
			return Action{Kind: ActionStoreInfo}
		case cbHelp:
			return Action{Kind: ActionHelp}
		}
		if name, ok := strings.CutPrefix(callback, cbCategoryPrefix); ok && name != "" {
			return Action{Kind: ActionCategory, Category: name}
		}
		return Action{Kind: ActionNone}
	}

	t := strings.TrimSpace(text)
	switch strings.ToLower(t) {
	case "/start", "/menu", "menu", "show menu":
		return Action{Kind: ActionMenu}
	case "/categories", "categories":
		return Action{Kind: ActionCategories}
	case "/all", "all items", "all":
		return Action{Kind: ActionAll}
	case "/refresh", "refresh":
		return Action{Kind: ActionRefresh}
	case "/store", "store info":
		return Action{Kind: ActionStoreInfo}
	case "/help", "help":
		return Action{Kind: ActionHelp}
	}

	// Button titles from keyboards of earlier bot builds carry emoji
	// prefixes; users with an old keyboard still get routed.
	if name, ok := strings.CutPrefix(t, "📂 "); ok && strings.TrimSpace(name) != "" {
		return Action{Kind: ActionCategory, Category: strings.TrimSpace(name)}
	}
	switch t {
	case "📋 Menu":
		return Action{Kind: ActionMenu}
	case "🍽️ All Items":
		return Action{Kind: ActionAll}
	case "🔄 Refresh":
		return Action{Kind: ActionRefresh}
	case "🏪 Store Info":
		return Action{Kind: ActionStoreInfo}
	case "ℹ️ Help":
		return Action{Kind: ActionHelp}
	}

	return Action{Kind: ActionNone}
}
