// Package service implements the progression and membership logic of the
// quest core.
//
// Every mutating operation is one optimistic transaction over a small set
// of documents (a user's profile and progress, a guild). The transaction
// function recomputes its writes from fresh snapshots on each attempt, so
// counters, history appends and member set changes survive concurrent
// writers without locks.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with the
//     store, retry policy and optional clock and logger
//   - Methods validate input, run one transaction, then log the outcome
//   - Errors are *DomainError sentinels compared with errors.Is and
//     classified with KindOf
//
// # Error Handling
//
//	_, err := guilds.JoinGuild(ctx, guildID, userID)
//	switch {
//	case errors.Is(err, service.ErrGuildFull):
//	    // invariant: no room left
//	case service.Retryable(err):
//	    // lost every optimistic attempt, safe to retry the request
//	}
//
// # Example Usage
//
//	feed := service.NewProgressFeed(0)
//	achievements := service.NewAchievementService(service.AchievementServiceConfig{Store: store})
//	progression := service.NewProgressionService(service.ProgressionServiceConfig{
//	    Store:        store,
//	    Feed:         feed,
//	    Achievements: achievements,
//	})
//	result, err := progression.CompleteQuest(ctx, userID, quest)
package service
