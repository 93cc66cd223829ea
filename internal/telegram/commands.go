package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"recipe-finder/internal/app"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
	"recipe-finder/internal/shopping/editing"
)

const helpText = `🍳 Recipe Finder

/ingredients - list the ingredients
/search <ids> - recipes using 2 to 5 ingredients
/recipe <id> - show a recipe
/shop <id> - add a recipe's ingredients to the list
/fav <id> - toggle a favorite
/favorites - list favorites
/list - show the shopping list
/add <name> [qty] [unit] - add an item
/done <n> - toggle item n
/edit <n> - edit item n
/remove <n> - remove item n
/clear - remove completed items
/clearall - empty the list
/export - export pending items
/status - list and system status`

type reply struct {
	text       string
	attachXLSX bool
}

func textReply(format string, args ...any) reply {
	return reply{text: fmt.Sprintf(format, args...)}
}

// handleCommand runs one chat message and returns the reply. A plain message
// completes a pending /edit for the chat.
func (b *Bot) handleCommand(chatID int64, text string) reply {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		if id, ok := b.pendingEdit(chatID); ok {
			return b.saveEdit(chatID, id, text)
		}
		return reply{text: helpText}
	}

	fields := strings.Fields(text)
	// Strip a "@botname" suffix used in groups.
	cmd, _, _ := strings.Cut(fields[0], "@")
	args := fields[1:]

	switch cmd {
	case "/start", "/help":
		return reply{text: helpText}
	case "/ingredients":
		return b.cmdIngredients()
	case "/search":
		return b.cmdSearch(args)
	case "/recipe":
		return b.cmdRecipe(args)
	case "/shop":
		return b.cmdShop(args)
	case "/fav":
		return b.cmdFav(args)
	case "/favorites":
		return b.cmdFavorites()
	case "/list":
		return textReply("%s", formatList(b.app.Shopping().Items()))
	case "/add":
		return b.cmdAdd(args)
	case "/done":
		return b.cmdDone(args)
	case "/remove":
		return b.cmdRemove(args)
	case "/edit":
		return b.cmdEdit(chatID, args)
	case "/cancel":
		return b.cmdCancel(chatID)
	case "/clear":
		b.app.Shopping().ClearCompleted()
		return textReply("🧹 Completed items removed.\n\n%s", formatList(b.app.Shopping().Items()))
	case "/clearall":
		b.app.Shopping().ClearAll()
		return textReply("🗑 Shopping list emptied.")
	case "/export":
		return b.cmdExport()
	case "/status":
		return b.cmdStatus()
	default:
		return textReply("Unknown command %s. Send /help for the list.", cmd)
	}
}

func (b *Bot) cmdIngredients() reply {
	var sb strings.Builder
	sb.WriteString("🥕 Ingredients\n\n")
	for _, ing := range b.app.Catalog().Ingredients {
		sb.WriteString(fmt.Sprintf("%s. %s %s (%s kcal/100g)\n", ing.ID, ing.Emoji, ing.Name, shopping.FormatQuantity(ing.CaloriesPer100g)))
	}
	sb.WriteString(fmt.Sprintf("\nPick %d to %d: /search 1 4", recipe.MinSelected, recipe.MaxSelected))
	return reply{text: sb.String()}
}

func (b *Bot) cmdSearch(args []string) reply {
	var ids []string
	for _, a := range args {
		ids = append(ids, strings.Split(a, ",")...)
	}

	res, err := b.app.Search(ids)
	if err != nil {
		return errorReply(err)
	}

	var sb strings.Builder
	sb.WriteString("📊 Calories per 100g\n")
	for _, bar := range res.Chart {
		sb.WriteString(fmt.Sprintf("%-10s %s %s\n", bar.Name, strings.Repeat("█", int(bar.Height/15)), shopping.FormatQuantity(bar.Calories)))
	}

	sb.WriteString(fmt.Sprintf("\n🍽 %d recipes found\n", len(res.Recipes)))
	for _, r := range res.Recipes {
		sb.WriteString(b.recipeLine(r))
	}
	return reply{text: strings.TrimRight(sb.String(), "\n")}
}

func (b *Bot) cmdRecipe(args []string) reply {
	if len(args) != 1 {
		return textReply("Usage: /recipe <id>")
	}
	r, err := b.app.Catalog().Recipe(args[0])
	if err != nil {
		return errorReply(err)
	}

	var sb strings.Builder
	star := ""
	if b.app.Favorites().IsFavorite(r.ID) {
		star = " ⭐"
	}
	sb.WriteString(fmt.Sprintf("%s%s\n⏱ %d min · 🔥 %s kcal\n\n", r.Title, star, r.CookingTime, shopping.FormatQuantity(r.Calories)))
	sb.WriteString("Ingredients\n")
	for _, ing := range r.Ingredients {
		sb.WriteString(fmt.Sprintf("• %s\n", ing))
	}
	sb.WriteString("\nSteps\n")
	for i, step := range r.Instructions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	sb.WriteString(fmt.Sprintf("\n/shop %s · /fav %s", r.ID, r.ID))
	return reply{text: sb.String()}
}

func (b *Bot) cmdShop(args []string) reply {
	if len(args) != 1 {
		return textReply("Usage: /shop <recipe id>")
	}
	items, err := b.app.AddRecipeToShoppingList(args[0])
	if err != nil {
		return errorReply(err)
	}
	return textReply("🛒 Ingredients added.\n\n%s", formatList(items))
}

func (b *Bot) cmdFav(args []string) reply {
	if len(args) != 1 {
		return textReply("Usage: /fav <recipe id>")
	}
	on, err := b.app.ToggleFavorite(args[0])
	if err != nil {
		return errorReply(err)
	}
	r, _ := b.app.Catalog().Recipe(args[0])
	if on {
		return textReply("⭐ %s added to favorites.", r.Title)
	}
	return textReply("☆ %s removed from favorites.", r.Title)
}

func (b *Bot) cmdFavorites() reply {
	recipes := b.app.FavoriteRecipes()
	if len(recipes) == 0 {
		return textReply("No favorites yet. Use /fav <id>.")
	}
	var sb strings.Builder
	sb.WriteString("⭐ Favorites\n\n")
	for _, r := range recipes {
		sb.WriteString(b.recipeLine(r))
	}
	return reply{text: strings.TrimRight(sb.String(), "\n")}
}

func (b *Bot) cmdAdd(args []string) reply {
	name, qty, unit, err := parseItemArgs(args)
	if err != nil {
		return textReply("Usage: /add <name> [qty] [unit]")
	}
	item, err := b.app.Shopping().AddItem(name, qty, unit)
	if err != nil {
		return errorReply(err)
	}
	return textReply("➕ %s (%s %s)", item.Name, shopping.FormatQuantity(item.Quantity), item.Unit)
}

func (b *Bot) cmdDone(args []string) reply {
	item, ok := b.itemAt(args)
	if !ok {
		return textReply("Usage: /done <n> with n from /list")
	}
	toggled, ok := b.app.Shopping().ToggleCompleted(item.ID)
	if !ok {
		return errorReply(editing.ErrItemGone)
	}
	if toggled.Completed {
		return textReply("✅ %s", toggled.Name)
	}
	return textReply("⬜ %s", toggled.Name)
}

func (b *Bot) cmdRemove(args []string) reply {
	item, ok := b.itemAt(args)
	if !ok {
		return textReply("Usage: /remove <n> with n from /list")
	}
	b.app.Shopping().RemoveItem(item.ID)
	return textReply("🗑 %s removed.", item.Name)
}

func (b *Bot) cmdEdit(chatID int64, args []string) reply {
	item, ok := b.itemAt(args)
	if !ok {
		return textReply("Usage: /edit <n> with n from /list")
	}
	if _, err := b.edits.StartEdit(item.ID); err != nil {
		return errorReply(err)
	}

	b.mu.Lock()
	if prev, ok := b.pendingEdits[chatID]; ok && prev != item.ID {
		b.edits.Cancel(prev)
	}
	b.pendingEdits[chatID] = item.ID
	b.mu.Unlock()

	return textReply("✏️ Editing %s (%s %s).\nSend: name [qty] [unit], or /cancel.",
		item.Name, shopping.FormatQuantity(item.Quantity), item.Unit)
}

func (b *Bot) cmdCancel(chatID int64) reply {
	id, ok := b.takePendingEdit(chatID)
	if !ok {
		return textReply("Nothing to cancel.")
	}
	b.edits.Cancel(id)
	return textReply("Edit cancelled.")
}

func (b *Bot) saveEdit(chatID int64, id, text string) reply {
	name, qty, unit, err := parseItemArgs(strings.Fields(text))
	if err != nil {
		return textReply("Send: name [qty] [unit], or /cancel.")
	}

	item, err := b.edits.Save(id, editing.Draft{Name: name, Quantity: qty, Unit: unit})
	if errors.Is(err, shopping.ErrEmptyName) {
		return textReply("Send: name [qty] [unit], or /cancel.")
	}
	b.takePendingEdit(chatID)
	if err != nil {
		return errorReply(err)
	}
	return textReply("💾 %s (%s %s)", item.Name, shopping.FormatQuantity(item.Quantity), item.Unit)
}

func (b *Bot) cmdExport() reply {
	text := b.app.Shopping().Export()
	if text == "" {
		return textReply("Nothing pending on the shopping list.")
	}
	return reply{text: "🛒 Shopping list\n\n" + text, attachXLSX: true}
}

func (b *Bot) cmdStatus() reply {
	total, completed := b.app.Shopping().Counts()
	health := b.app.Health()

	var sb strings.Builder
	sb.WriteString("📊 Status\n\n")
	sb.WriteString(fmt.Sprintf("• Items: %d (%d completed)\n", total, completed))
	sb.WriteString(fmt.Sprintf("• Favorites: %d\n", len(b.app.Favorites().IDs())))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	if health.DataDiskSize != "" {
		sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	}
	return reply{text: strings.TrimRight(sb.String(), "\n")}
}

func (b *Bot) recipeLine(r recipe.Recipe) string {
	star := ""
	if b.app.Favorites().IsFavorite(r.ID) {
		star = " ⭐"
	}
	return fmt.Sprintf("%s. %s (%s kcal, %d min)%s\n", r.ID, r.Title, shopping.FormatQuantity(r.Calories), r.CookingTime, star)
}

// itemAt resolves a 1-based list position.
func (b *Bot) itemAt(args []string) (shopping.Item, bool) {
	if len(args) != 1 {
		return shopping.Item{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return shopping.Item{}, false
	}
	items := b.app.Shopping().Items()
	if n < 1 || n > len(items) {
		return shopping.Item{}, false
	}
	return items[n-1], true
}

func (b *Bot) pendingEdit(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.pendingEdits[chatID]
	return id, ok
}

func (b *Bot) takePendingEdit(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.pendingEdits[chatID]
	delete(b.pendingEdits, chatID)
	return id, ok
}

func formatList(items []shopping.Item) string {
	if len(items) == 0 {
		return "🛒 The shopping list is empty."
	}
	var sb strings.Builder
	sb.WriteString("🛒 Shopping list\n\n")
	for i, it := range items {
		mark := "⬜"
		if it.Completed {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s %s)\n", i+1, mark, it.Name, shopping.FormatQuantity(it.Quantity), it.Unit))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// parseItemArgs splits "name words [qty] [unit words]". The first numeric
// token after the name is the quantity; "," is accepted as the decimal
// separator.
func parseItemArgs(args []string) (name string, qty float64, unit string, err error) {
	if len(args) == 0 {
		return "", 0, "", errors.New("missing name")
	}
	for i := 1; i < len(args); i++ {
		q, perr := strconv.ParseFloat(strings.ReplaceAll(args[i], ",", "."), 64)
		if perr != nil {
			continue
		}
		return strings.Join(args[:i], " "), q, strings.Join(args[i+1:], " "), nil
	}
	return strings.Join(args, " "), 0, "", nil
}

func errorReply(err error) reply {
	switch {
	case errors.Is(err, app.ErrTooFewIngredients), errors.Is(err, app.ErrTooManyIngredients):
		return textReply("⚠️ %s. See /ingredients.", capitalize(err.Error()))
	case errors.Is(err, recipe.ErrUnknownIngredient):
		return textReply("⚠️ Unknown ingredient. See /ingredients.")
	case errors.Is(err, recipe.ErrRecipeNotFound):
		return textReply("⚠️ Recipe not found.")
	case errors.Is(err, shopping.ErrEmptyName):
		return textReply("⚠️ Item name is empty.")
	case errors.Is(err, editing.ErrItemGone):
		return textReply("⚠️ That item is no longer on the list.")
	default:
		return textReply("❌ %v", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
