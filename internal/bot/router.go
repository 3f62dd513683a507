package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/menuqrcode/menubot/internal/menu"
	"github.com/menuqrcode/menubot/internal/menuapi"
	"github.com/menuqrcode/menubot/internal/metrics"
)

// Control is one quick-reply option attached to an outbound message. ID is
// the callback token delivered back when the user taps it.
type Control struct {
	ID    string
	Title string
}

// Gateway is the outbound messaging surface the router renders through.
// *whatsapp.Client satisfies it.
type Gateway interface {
	SendText(ctx context.Context, chatID, text string, controls []Control) error
	SendImage(ctx context.Context, chatID, imageURL, caption string, controls []Control) error
}

// Router turns resolved actions into rendered replies. It is stateless
// between requests; the only shared state it touches is the menu cache.
type Router struct {
	cache *menu.Cache
	gw    Gateway

	productLimit  int
	categoryLimit int
	sendDelay     time.Duration
}

func NewRouter(cache *menu.Cache, gw Gateway, productLimit, categoryLimit int, sendDelay time.Duration) *Router {
	return &Router{
		cache:         cache,
		gw:            gw,
		productLimit:  productLimit,
		categoryLimit: categoryLimit,
		sendDelay:     sendDelay,
	}
}

func mainControls() []Control {
	return []Control{
		{cbMenu, "📋 Menu"},
		{cbCategories, "📂 Categories"},
		{cbAll, "🍽️ All Items"},
		{cbRefresh, "🔄 Refresh"},
		{cbStoreInfo, "🏪 Store Info"},
		{cbHelp, "ℹ️ Help"},
	}
}

// Handle runs one action for a chat. Failures never escape: any error or
// panic during processing becomes a generic apology with the main controls,
// so the user is never left without a response.
func (r *Router) Handle(ctx context.Context, chatID string, action Action) {
	if action.Kind == ActionNone {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithFields(logrus.Fields{"chat": chatID, "panic": rec}).Error("router: action panicked")
			r.apologize(ctx, chatID)
		}
	}()

	var err error
	switch action.Kind {
	case ActionMenu:
		err = r.showMenu(ctx, chatID)
	case ActionCategories:
		err = r.showCategories(ctx, chatID)
	case ActionCategory:
		err = r.showCategory(ctx, chatID, action.Category)
	case ActionAll:
		err = r.showAll(ctx, chatID)
	case ActionRefresh:
		err = r.refresh(ctx, chatID)
	case ActionStoreInfo:
		err = r.showStoreInfo(ctx, chatID)
	case ActionHelp:
		err = r.showHelp(ctx, chatID)
	}

	if err != nil {
		logrus.WithFields(logrus.Fields{"chat": chatID, "action": action.Kind}).WithError(err).Error("router: action failed")
		r.apologize(ctx, chatID)
	}
}

func (r *Router) showMenu(ctx context.Context, chatID string) error {
	snap := r.cache.Get(ctx)
	text := fmt.Sprintf("Welcome to *%s*! 🍕\nBrowse our menu:", menu.StoreName(snap.Store))
	return r.gw.SendText(ctx, chatID, text, mainControls())
}

func (r *Router) showCategories(ctx context.Context, chatID string) error {
	snap := r.cache.Get(ctx)
	if len(snap.Categories) == 0 {
		if err := r.gw.SendText(ctx, chatID, "📭 No categories available right now — showing all items instead.", nil); err != nil {
			return err
		}
		return r.showAll(ctx, chatID)
	}

	cats := snap.Categories
	if len(cats) > r.categoryLimit {
		cats = cats[:r.categoryLimit]
	}
	controls := make([]Control, 0, len(cats)+1)
	for _, c := range cats {
		controls = append(controls, Control{ID: cbCategoryPrefix + c.ID, Title: "📂 " + c.Name})
	}
	controls = append(controls, Control{ID: cbMenu, Title: "🔙 Main Menu"})

	return r.gw.SendText(ctx, chatID, "📋 *Select a category:*", controls)
}

func (r *Router) showCategory(ctx context.Context, chatID, nameOrID string) error {
	snap := r.cache.Get(ctx)

	cat := menu.FindCategory(snap.Categories, nameOrID)
	title := nameOrID
	var matched []menuapi.Product
	if cat != nil {
		title = cat.Name
		matched = menu.FilterByCategory(*cat, snap.Products)
	}

	if len(matched) == 0 {
		// Weak category references upstream mean a miss here usually
		// signals shape drift rather than an empty category, so fall back
		// to the full list instead of reporting nothing.
		notice := fmt.Sprintf("📭 Nothing matched *%s* — showing the full menu instead.", title)
		if err := r.gw.SendText(ctx, chatID, notice, nil); err != nil {
			return err
		}
		return r.showAll(ctx, chatID)
	}

	return r.sendProductList(ctx, chatID, "📂 *"+title+"*", matched)
}

func (r *Router) showAll(ctx context.Context, chatID string) error {
	snap := r.cache.Get(ctx)
	if len(snap.Products) == 0 {
		return r.gw.SendText(ctx, chatID, "📭 No items found in the menu. Tap 🔄 Refresh to try again.", mainControls())
	}
	return r.sendProductList(ctx, chatID, "🍽️ *All Items*", menu.OrderByCategory(snap.Products))
}

func (r *Router) refresh(ctx context.Context, chatID string) error {
	r.cache.Invalidate()
	snap := r.cache.Get(ctx)
	if len(snap.Products) == 0 {
		return r.gw.SendText(ctx, chatID, "⚠️ Could not refresh the menu — the menu server may be down. Try again shortly.", mainControls())
	}
	text := fmt.Sprintf("✅ Menu refreshed — %d items available.", len(snap.Products))
	return r.gw.SendText(ctx, chatID, text, mainControls())
}

func (r *Router) showStoreInfo(ctx context.Context, chatID string) error {
	snap := r.cache.Get(ctx)
	controls := []Control{{ID: cbMenu, Title: "🔙 Main Menu"}}
	return r.gw.SendText(ctx, chatID, menu.RenderStoreInfo(snap.Store), controls)
}

func (r *Router) showHelp(ctx context.Context, chatID string) error {
	help := "🤖 *Menu Bot Help*\n\n" +
		"*Commands:*\n" +
		"/start — main menu\n" +
		"/categories — browse by category\n" +
		"/all — every item on the menu\n" +
		"/refresh — reload the latest menu\n" +
		"/store — store info and contacts\n" +
		"/help — this message\n\n" +
		"Use the buttons to navigate!"
	return r.gw.SendText(ctx, chatID, help, mainControls())
}

// sendProductList renders a header, then up to productLimit products one
// message each, then a closing notice carrying the navigation controls.
func (r *Router) sendProductList(ctx context.Context, chatID, header string, products []menuapi.Product) error {
	total := len(products)
	capped := products
	if total > r.productLimit {
		capped = products[:r.productLimit]
	}

	if err := r.gw.SendText(ctx, chatID, header, nil); err != nil {
		return err
	}

	for _, raw := range capped {
		if !r.pause(ctx) {
			return ctx.Err()
		}
		if err := r.sendProduct(ctx, chatID, menu.Normalize(raw)); err != nil {
			return err
		}
	}

	notice := "🔄 Tap Refresh to see the latest menu."
	if len(capped) < total {
		notice = fmt.Sprintf("Showing %d of %d items. Tap 🔄 Refresh for the latest menu.", len(capped), total)
	}
	if !r.pause(ctx) {
		return ctx.Err()
	}
	return r.gw.SendText(ctx, chatID, notice, mainControls())
}

// sendProduct tries the product image first when one passed the shape check;
// an image-send failure falls back to the caption as plain text and is never
// surfaced to the user.
func (r *Router) sendProduct(ctx context.Context, chatID string, p menu.DisplayProduct) error {
	caption := menu.RenderCaption(p)
	if p.ImageURL != "" {
		err := r.gw.SendImage(ctx, chatID, p.ImageURL, caption, nil)
		if err == nil {
			return nil
		}
		metrics.ImageFallbacks.Inc()
		logrus.WithFields(logrus.Fields{"chat": chatID, "product": p.ID}).WithError(err).Warn("router: image send failed, sending caption as text")
	}
	return r.gw.SendText(ctx, chatID, caption, nil)
}

func (r *Router) apologize(ctx context.Context, chatID string) {
	msg := "😔 Something went wrong. Please try again."
	if err := r.gw.SendText(ctx, chatID, msg, mainControls()); err != nil {
		logrus.WithField("chat", chatID).WithError(err).Error("router: failed to send error reply")
	}
}

// pause waits the configured inter-message delay, honoring cancellation.
func (r *Router) pause(ctx context.Context) bool {
	if r.sendDelay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(r.sendDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
