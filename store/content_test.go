// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

func TestSubscribeLifecycle(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	s := &models.Subscriber{Email: "  Reader@Example.com ", Locale: "fr"}
	require.NoError(t, st.Subscribers.Subscribe(ctx, s))
	assert.Equal(t, "reader@example.com", s.Email)
	firstID := s.ID

	err := st.Subscribers.Subscribe(ctx, &models.Subscriber{Email: "reader@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, st.Subscribers.Unsubscribe(ctx, "READER@example.com"))
	assert.ErrorIs(t, st.Subscribers.Unsubscribe(ctx, "reader@example.com"), store.ErrNotFound)

	active, err := st.Subscribers.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	again := &models.Subscriber{Email: "reader@example.com", Locale: "en"}
	require.NoError(t, st.Subscribers.Subscribe(ctx, again))
	assert.Equal(t, firstID, again.ID)

	all, err := st.Subscribers.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Active)
	assert.Equal(t, "en", all[0].Locale)
}

func TestPostsPublishedListing(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	cat := &models.BlogCategory{Slug: "food", Name: "Food"}
	require.NoError(t, st.Categories.Create(ctx, cat))

	draft := &models.Post{Slug: "draft", Title: "Draft", Content: "body"}
	require.NoError(t, st.Posts.Create(ctx, draft))
	assert.Nil(t, draft.PublishedAt)

	for _, slug := range []string{"croissants", "macarons", "baguettes"} {
		p := &models.Post{Slug: slug, Title: slug, Content: "long body", CategoryID: &cat.ID, Published: true}
		require.NoError(t, st.Posts.Create(ctx, p))
	}
	require.NoError(t, st.Posts.Create(ctx, &models.Post{Slug: "museums", Title: "Museums", Published: true}))

	posts, total, err := st.Posts.ListPublished(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, posts, 2)
	assert.Empty(t, posts[0].Content, "listing leaves out the body")

	posts, total, err = st.Posts.ListPublished(ctx, "food", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, posts, 3)

	_, err = st.Posts.GetPublishedBySlug(ctx, "draft")
	assert.ErrorIs(t, err, store.ErrNotFound)

	draft.Published = true
	require.NoError(t, st.Posts.Update(ctx, draft))
	assert.NotNil(t, draft.PublishedAt)

	got, err := st.Posts.GetPublishedBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)

	err = st.Posts.Create(ctx, &models.Post{Slug: "draft", Title: "Duplicate"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	cat := &models.BlogCategory{Slug: "history", Name: "History"}
	require.NoError(t, st.Categories.Create(ctx, cat))
	p := &models.Post{Slug: "bastille", Title: "Bastille", CategoryID: &cat.ID}
	require.NoError(t, st.Posts.Create(ctx, p))

	require.NoError(t, st.Categories.Delete(ctx, cat.ID))

	got, err := st.Posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestFlashcardsOrdering(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	b := &models.Bundle{Slug: "paris-food", City: "paris", Title: "Food words", Published: true}
	require.NoError(t, st.Bundles.Create(ctx, b))

	var ids []string
	for _, front := range []string{"pain", "fromage", "vin"} {
		c := &models.Flashcard{BundleID: b.ID, Front: front, Back: "?"}
		require.NoError(t, st.Flashcards.Create(ctx, c))
		ids = append(ids, c.ID)
	}

	cards, err := st.Flashcards.List(ctx, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{cards[0].Position, cards[1].Position, cards[2].Position})

	require.NoError(t, st.Flashcards.Reorder(ctx, b.ID, []string{ids[2], ids[0], ids[1]}))
	cards, err = st.Flashcards.List(ctx, b.ID, 2)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "vin", cards[0].Front)
	assert.Equal(t, "pain", cards[1].Front)

	assert.ErrorIs(t, st.Flashcards.Reorder(ctx, b.ID, []string{"nope"}), store.ErrNotFound)

	bundles, err := st.Bundles.List(ctx, "paris", true)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, 3, bundles[0].CardCount)
}

func TestPagesAndGuideConfigs(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	raw, err := st.Pages.Get(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, st.Pages.Put(ctx, "home", []byte(`{"sections":[]}`)))
	require.NoError(t, st.Pages.Put(ctx, "home", []byte(`{"sections":[],"theme":{"accent":"blue"}}`)))
	raw, err = st.Pages.Get(ctx, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[],"theme":{"accent":"blue"}}`, string(raw))

	_, err = st.GuideConfigs.Get(ctx, "louvre")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.GuideConfigs.Put(ctx, "louvre", json.RawMessage(`{"wings":`))
	assert.Error(t, err)

	_, err = st.GuideConfigs.Put(ctx, "louvre", json.RawMessage(`{"wings":["Denon","Sully"]}`))
	require.NoError(t, err)
	cfg, err := st.GuideConfigs.Get(ctx, "louvre")
	require.NoError(t, err)
	assert.JSONEq(t, `{"wings":["Denon","Sully"]}`, string(cfg.Config))
}

func TestSiteTextFallback(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	for _, row := range []models.SiteText{
		{Key: "hero.title", Locale: "en", Value: "Discover Paris"},
		{Key: "hero.subtitle", Locale: "en", Value: "With a local"},
		{Key: "hero.title", Locale: "fr", Value: "Découvrez Paris"},
	} {
		require.NoError(t, st.SiteText.Put(ctx, &row))
	}

	texts, err := st.SiteText.Map(ctx, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"hero.title":    "Découvrez Paris",
		"hero.subtitle": "With a local",
	}, texts)

	require.NoError(t, st.SiteText.Put(ctx, &models.SiteText{Key: "hero.title", Locale: "fr", Value: "Paris autrement"}))
	texts, err = st.SiteText.Map(ctx, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "Paris autrement", texts["hero.title"])

	require.NoError(t, st.SiteText.Delete(ctx, "hero.title", "fr"))
	assert.ErrorIs(t, st.SiteText.Delete(ctx, "hero.title", "fr"), store.ErrNotFound)
}

func TestPricing(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	p := &models.CityPricing{City: "paris", DurationDays: 3, PriceCents: 1500, Active: true}
	require.NoError(t, st.Pricing.Create(ctx, p))
	assert.Equal(t, "€15.00", p.DisplayPrice)

	dup := &models.CityPricing{City: "paris", DurationDays: 3, PriceCents: 900, Active: true}
	assert.ErrorIs(t, st.Pricing.Create(ctx, dup), store.ErrConflict)

	require.NoError(t, st.Pricing.Upsert(ctx, &models.CityPricing{City: "paris", DurationDays: 3, PriceCents: 1900, Active: true}))
	require.NoError(t, st.Pricing.Upsert(ctx, &models.CityPricing{City: "paris", DurationDays: 7, PriceCents: 2900, Active: false}))

	got, err := st.Pricing.GetActive(ctx, "paris", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1900), got.PriceCents)

	_, err = st.Pricing.GetActive(ctx, "paris", 7)
	assert.ErrorIs(t, err, store.ErrNotFound)

	active, err := st.Pricing.List(ctx, "paris", true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
