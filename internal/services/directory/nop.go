package directory

import (
	"context"
	"time"

	"github.com/magabrotheeeer/account-directory/internal/models"
)

type nopCache struct{}

func (nopCache) Get(string, any) (bool, error) { return false, nil }

func (nopCache) Set(string, any, time.Duration) error { return nil }

func (nopCache) Invalidate(string) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.AccountEvent) error { return nil }
