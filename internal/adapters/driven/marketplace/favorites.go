package marketplace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// favoritesResponse is the GET /favorites response format.
type favoritesResponse struct {
	Favourites []struct {
		PropertyID   string `json:"unique_property_id"`
		PropertyName string `json:"property_name"`
	} `json:"favourites"`
}

// toggleRequest is the POST /favorites request format.
type toggleRequest struct {
	UserID       string `json:"user_id"`
	PropertyID   string `json:"unique_property_id"`
	PropertyName string `json:"property_name"`
}

// ListFavorites returns the authoritative favourites for a user.
func (c *Client) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var resp favoritesResponse
	if err := c.getJSON(ctx, pathFavorites, url.Values{"user_id": {userID}}, &resp); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := make([]domain.Favorite, 0, len(resp.Favourites))
	for _, f := range resp.Favourites {
		out = append(out, domain.Favorite{PropertyID: f.PropertyID, PropertyName: f.PropertyName})
	}
	return out, nil
}

// ToggleFavorite adds the property to the user's favourites if absent and
// removes it otherwise; the backend decides which.
func (c *Client) ToggleFavorite(ctx context.Context, userID string, fav domain.Favorite) error {
	body := toggleRequest{
		UserID:       userID,
		PropertyID:   fav.PropertyID,
		PropertyName: fav.PropertyName,
	}
	if err := c.postJSON(ctx, pathFavorites, body, nil); err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	return nil
}
