package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fanzoneapp/fanzone/internal/logger"
	"github.com/fanzoneapp/fanzone/internal/metrics"
)

type Handlers struct {
	Polls  *PollHandler
	Posts  *PostHandler
	Feed   *FeedHandler
	Wallet *WalletHandler
	Users  *UserHandler
	Sports *SportsHandler
}

func NewHandler(h Handlers, jwtSecret []byte, log *logger.Logger, met *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(Metrics(met))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		// Public, display-only surfaces.
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuth(jwtSecret))
			r.Get("/feed", h.Feed.GetFeed)
			r.Get("/polls", h.Polls.ListPolls)
			r.Get("/polls/{id}", h.Polls.GetPoll)
			r.Get("/polls/{id}/results", h.Polls.GetResults)
			r.Get("/posts", h.Posts.RecentPosts)
		})

		r.Route("/sports", func(r chi.Router) {
			r.Get("/matches", h.Sports.GetMatches)
			r.Get("/standings", h.Sports.GetStandings)
			r.Get("/scorers", h.Sports.GetTopScorers)
			r.Get("/competitions", h.Sports.GetCompetitions)
		})

		// Everything that mutates requires an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(Auth(jwtSecret))

			r.Post("/polls", h.Polls.CreatePoll)
			r.Post("/polls/{id}/votes", h.Polls.VoteOnPoll)

			r.Post("/posts", h.Posts.CreatePost)
			r.Post("/posts/{id}/like", h.Posts.LikePost)
			r.Post("/posts/{id}/repost", h.Posts.RepostPost)

			r.Get("/wallet", h.Wallet.GetBalance)

			r.Get("/users/me", h.Users.GetMe)
			r.Post("/users/register-team", h.Users.RegisterTeam)
		})
	})

	return r
}
