package supabase

import (
	"github.com/supabase-community/supabase-go"

	"sketch2photo-backend/internal/config"
)

// Client wraps the Supabase platform client. Auth calls (signup,
// password grant, user update) go through Client.Supabase.Auth; row and
// object access use the dedicated DatabaseClient and StorageClient.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
