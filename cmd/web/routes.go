package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/httputil"
	"github.com/kwatanabe/beytrack/internal/middleware"
	"github.com/kwatanabe/beytrack/internal/refresh"
	"github.com/kwatanabe/beytrack/internal/service"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/kwatanabe/beytrack/internal/wizard"
	"github.com/kwatanabe/beytrack/views"
	"github.com/markbates/goth/gothic"
)

const draftSessionKey = "tournamentDraft"

func newRouter(dbConn *sqlx.DB, sessionManager *scs.SessionManager, logPollers *refresh.Registry[service.LogData]) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	// Serve static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, store.NewUserStore(dbConn)))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))

			tournaments, err := tournamentService.GetTournamentsForUser(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournaments", err)
				return
			}
			views.Index(tournaments).Render(r.Context(), w)
		})

		// Wizard: the draft lives in the session between steps and is
		// submitted exactly once from the review step.
		r.Get("/tournaments/new", func(w http.ResponseWriter, r *http.Request) {
			draft := wizard.NewDraft()
			if err := saveDraft(sessionManager, r.Context(), draft); err != nil {
				httputil.InternalServerError(w, "Failed to start wizard", err)
				return
			}
			views.WizardPage(draft, wizard.StepBasicInfo).Render(r.Context(), w)
		})

		r.Get("/tournaments/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
			tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))
			id := chi.URLParam(r, "id")

			tournament, err := tournamentService.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}

			draft := tournamentService.DraftFromTournament(tournament)
			if err := saveDraft(sessionManager, r.Context(), draft); err != nil {
				httputil.InternalServerError(w, "Failed to start wizard", err)
				return
			}
			views.WizardPage(draft, wizard.StepBasicInfo).Render(r.Context(), w)
		})

		r.Post("/wizard/step/{step}", func(w http.ResponseWriter, r *http.Request) {
			stepNum, err := strconv.Atoi(chi.URLParam(r, "step"))
			if err != nil || stepNum < 0 || stepNum >= wizard.StepCount {
				httputil.BadRequest(w, "Invalid wizard step", err)
				return
			}
			step := wizard.Step(stepNum)

			draft := loadDraft(sessionManager, r.Context())
			if draft == nil {
				w.Header().Set("HX-Redirect", "/tournaments/new")
				w.WriteHeader(http.StatusOK)
				return
			}

			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			nav := r.Form.Get("nav")
			if nav == "cancel" {
				sessionManager.Remove(r.Context(), draftSessionKey)
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusOK)
				return
			}

			draft.Apply(patchForStep(step, r.Form))
			if err := saveDraft(sessionManager, r.Context(), draft); err != nil {
				httputil.InternalServerError(w, "Failed to save draft", err)
				return
			}

			switch nav {
			case "back":
				if step > wizard.StepBasicInfo {
					step--
				}
				views.WizardStep(draft, step).Render(r.Context(), w)
			case "submit":
				tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))
				var submitErr error
				var tournamentID string
				if draft.IsEdit() {
					submitErr = tournamentService.UpdateFromDraft(r.Context(), draft)
					tournamentID = draft.TournamentID
				} else {
					var id uuid.UUID
					id, submitErr = tournamentService.CreateFromDraft(r.Context(), draft)
					tournamentID = id.String()
				}
				if submitErr != nil {
					// Draft stays in the session so the user can retry.
					views.SubmitError(draft, submitErr.Error()).Render(r.Context(), w)
					return
				}
				sessionManager.Remove(r.Context(), draftSessionKey)
				w.Header().Set("HX-Redirect", "/tournaments/"+tournamentID+"/log")
				w.WriteHeader(http.StatusOK)
			default: // next
				if draft.CanAdvance(step) && step < wizard.StepReview {
					step++
				}
				views.WizardStep(draft, step).Render(r.Context(), w)
			}
		})

		// Live match log.
		r.Get("/tournaments/{id}/log", func(w http.ResponseWriter, r *http.Request) {
			tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))
			id := chi.URLParam(r, "id")

			tournament, err := tournamentService.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}

			poller := logPollerFor(dbConn, logPollers, id)
			data := poller.Latest()
			if data == nil {
				// First view: fetch synchronously; a failure falls through
				// to the empty dashboard rather than an error page.
				data, _ = poller.Refresh(r.Context())
			}
			views.LogPage(tournament, views.PrepareLogView(data), poller.Running()).Render(r.Context(), w)
		})

		r.Get("/tournaments/{id}/log/partial", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			poller := logPollerFor(dbConn, logPollers, id)
			views.LogDashboard(id, views.PrepareLogView(poller.Latest()), poller.Running()).Render(r.Context(), w)
		})

		r.Post("/tournaments/{id}/log/refresh", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			poller := logPollerFor(dbConn, logPollers, id)
			// On failure the previous snapshot stays on screen.
			if _, err := poller.Refresh(r.Context()); err != nil {
				views.LogDashboard(id, views.PrepareLogView(poller.Latest()), poller.Running()).Render(r.Context(), w)
				return
			}
			views.LogDashboard(id, views.PrepareLogView(poller.Latest()), poller.Running()).Render(r.Context(), w)
		})

		r.Post("/tournaments/{id}/log/autorefresh", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			poller := logPollerFor(dbConn, logPollers, id)
			if r.Form.Get("enabled") == "on" {
				if err := poller.Start(); err != nil {
					httputil.InternalServerError(w, "Failed to start auto-refresh", err)
					return
				}
			} else {
				poller.Stop()
			}
			views.LogDashboard(id, views.PrepareLogView(poller.Latest()), poller.Running()).Render(r.Context(), w)
		})

		// Analytics.
		r.Get("/tournaments/{id}/analytics", func(w http.ResponseWriter, r *http.Request) {
			tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))
			logService := service.NewLogService(dbConn, store.NewResultStore(dbConn), store.NewStadiumStore(dbConn))
			id := chi.URLParam(r, "id")

			tournament, err := tournamentService.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}

			data, err := logService.GetAnalytics(r.Context(), id)
			if err != nil {
				// Render the empty state instead of failing the whole page.
				data = &service.AnalyticsData{}
			}
			views.AnalyticsPage(tournament, data).Render(r.Context(), w)
		})

		// Stadium management.
		r.Get("/tournaments/{id}/stadiums", func(w http.ResponseWriter, r *http.Request) {
			tournamentService := service.NewTournamentService(dbConn, store.NewTournamentStore(dbConn))
			stadiumService := service.NewStadiumService(dbConn, store.NewStadiumStore(dbConn))
			id := chi.URLParam(r, "id")

			tournament, err := tournamentService.GetTournament(r.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}

			stadiums, err := stadiumService.GetStadiums(r.Context(), id)
			if err != nil {
				httputil.InternalServerError(w, "Failed to get stadiums", err)
				return
			}
			views.StadiumsPage(tournament, stadiums).Render(r.Context(), w)
		})

		r.Post("/tournaments/{id}/stadiums", func(w http.ResponseWriter, r *http.Request) {
			stadiumService := service.NewStadiumService(dbConn, store.NewStadiumStore(dbConn))
			idStr := chi.URLParam(r, "id")
			tournamentID, err := uuid.Parse(idStr)
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			names := strings.Split(r.Form.Get("names"), "\n")
			stadiums, err := stadiumService.ReplaceStadiums(r.Context(), tournamentID, names)
			if err != nil {
				httputil.InternalServerError(w, "Failed to save stadiums", err)
				return
			}
			views.StadiumList(idStr, stadiums).Render(r.Context(), w)
		})

		r.Post("/stadiums/{id}/officer", func(w http.ResponseWriter, r *http.Request) {
			stadiumService := service.NewStadiumService(dbConn, store.NewStadiumStore(dbConn))
			stadiumID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid stadium ID", err)
				return
			}
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			if err := stadiumService.AssignOfficer(r.Context(), stadiumID, r.Form.Get("officer_name")); err != nil {
				httputil.InternalServerError(w, "Failed to assign officer", err)
				return
			}

			tournamentID := r.Form.Get("tournament_id")
			stadiums, err := stadiumService.GetStadiums(r.Context(), tournamentID)
			if err != nil {
				httputil.InternalServerError(w, "Failed to get stadiums", err)
				return
			}
			views.StadiumList(tournamentID, stadiums).Render(r.Context(), w)
		})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))
		user, err := userService.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())

		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		views.LoginPage().Render(r.Context(), w)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))

		user, err := userService.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		sessionManager.Destroy(r.Context())
		if r.Header.Get("HX-Request") != "" {
			w.Header().Set("HX-Redirect", "/login")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	return r
}

// logPollerFor returns the tournament's dashboard poller, creating it with
// a fetcher over a fresh LogService on first use.
func logPollerFor(dbConn *sqlx.DB, registry *refresh.Registry[service.LogData], tournamentID string) *refresh.Poller[service.LogData] {
	return registry.Get(tournamentID, func(ctx context.Context) (*service.LogData, error) {
		logService := service.NewLogService(dbConn, store.NewResultStore(dbConn), store.NewStadiumStore(dbConn))
		return logService.GetLogData(ctx, tournamentID)
	})
}

func loadDraft(sessionManager *scs.SessionManager, ctx context.Context) *wizard.Draft {
	encoded := sessionManager.GetString(ctx, draftSessionKey)
	if encoded == "" {
		return nil
	}
	draft, err := wizard.Decode(encoded)
	if err != nil {
		return nil
	}
	return draft
}

func saveDraft(sessionManager *scs.SessionManager, ctx context.Context, draft *wizard.Draft) error {
	encoded, err := draft.Encode()
	if err != nil {
		return err
	}
	sessionManager.Put(ctx, draftSessionKey, encoded)
	return nil
}

// patchForStep parses only the fields the given step owns, so posting one
// step never clobbers another step's values. The rules step rebuilds the
// whole settings block: checkboxes are absent when unchecked, and a partial
// merge would wrongly keep stale toggles.
func patchForStep(step wizard.Step, form map[string][]string) wizard.Patch {
	get := func(key string) string {
		if vals, ok := form[key]; ok && len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	has := func(key string) bool {
		_, ok := form[key]
		return ok
	}

	var patch wizard.Patch
	switch step {
	case wizard.StepBasicInfo:
		patch.Name = utils.Ptr(get("name"))
		patch.Password = utils.Ptr(get("password"))
		patch.Location = utils.Ptr(get("location"))
		hostType := tracker.HostType(get("host_type"))
		if hostType != tracker.CommunityHost {
			hostType = tracker.PersonalHost
		}
		patch.HostType = &hostType
		patch.CommunityID = utils.Ptr(get("community_id"))
		patch.StartDate = utils.Ptr(get("start_date"))
		patch.EndDate = utils.Ptr(get("end_date"))
	case wizard.StepDescription:
		patch.Description = utils.Ptr(get("description"))
	case wizard.StepRegistration:
		patch.MaxPlayers = utils.Ptr(utils.AtoiOrZero(get("max_players")))
		patch.BeybladesPerPlayer = utils.Ptr(utils.AtoiOrZero(get("beyblades_per_player")))
		patch.DecksPerPlayer = utils.Ptr(utils.AtoiOrZero(get("decks_per_player")))
		patch.FreeEntry = utils.Ptr(has("free_entry"))
		patch.EntryFee = utils.Ptr(utils.AtoiOrZero(get("entry_fee")))
	case wizard.StepRules:
		tournamentType := tracker.TournamentType(get("tournament_type"))
		if tournamentType != tracker.CasualTournament {
			tournamentType = tracker.RankedTournament
		}
		patch.TournamentType = &tournamentType
		matchFormat := tracker.MatchFormat(get("match_format"))
		if matchFormat != tracker.DeckFormat {
			matchFormat = tracker.SoloFormat
		}
		patch.Settings = &tracker.Settings{
			MatchFormat:     matchFormat,
			DeckOrdered:     has("deck_ordered"),
			BanlistEnforced: has("banlist_enforced"),
			AllowSpectators: has("allow_spectators"),
		}
	}
	return patch
}
