package handlers

import (
	"net/http"

	"github.com/biasadhi/biasadhi-gobackend/internal/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const banner = "Bia Sadhi is running"

type Handlers struct {
	Token     *TokenHandler
	Users     *UserHandler
	Biodata   *BiodataHandler
	Favorites *FavoriteHandler
	Payments  *PaymentHandler
}

type RouterOptions struct {
	// StrictAuth adds the authenticated gate (and the ownership check where
	// the path carries an email) to routes that are public otherwise.
	StrictAuth  bool
	CORSOrigins []string
	// RateLimit guards token issuance and registration. Nil disables it.
	RateLimit func(http.Handler) http.Handler
	Logger    *zap.Logger
}

func NewRouter(h Handlers, auth *middleware.Auth, opts RouterOptions) http.Handler {
	limited := opts.RateLimit
	if limited == nil {
		limited = func(next http.Handler) http.Handler { return next }
	}
	open := func(fn http.HandlerFunc) http.Handler {
		if opts.StrictAuth {
			return auth.Authenticated(fn)
		}
		return fn
	}
	owned := func(param string, fn http.HandlerFunc) http.Handler {
		if opts.StrictAuth {
			return auth.Authenticated(auth.SameEmail(param)(fn))
		}
		return fn
	}
	adminWhenStrict := func(fn http.HandlerFunc) http.Handler {
		if opts.StrictAuth {
			return auth.AdminOnly(fn)
		}
		return fn
	}

	router := mux.NewRouter()
	router.Use(middleware.Recover(opts.Logger), middleware.RequestID, middleware.AccessLog(opts.Logger))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(banner))
	}).Methods("GET", "HEAD")

	router.Handle("/jwt", limited(http.HandlerFunc(h.Token.IssueToken))).Methods("POST")

	// users
	router.Handle("/users", auth.AdminOnly(http.HandlerFunc(h.Users.GetUsers))).Methods("GET")
	router.Handle("/users", limited(http.HandlerFunc(h.Users.CreateUser))).Methods("POST")
	router.Handle("/users/admin/{email}", auth.Authenticated(auth.SameEmail("email")(http.HandlerFunc(h.Users.CheckAdmin)))).Methods("GET")
	router.Handle("/users/admin/premium/{id}", auth.AdminOnly(http.HandlerFunc(h.Users.MakePremium))).Methods("PATCH")
	router.Handle("/users/admin/{id}", auth.AdminOnly(http.HandlerFunc(h.Users.MakeAdmin))).Methods("PATCH")
	router.Handle("/users/{id}", auth.AdminOnly(http.HandlerFunc(h.Users.DeleteUser))).Methods("DELETE")

	// biodata
	router.HandleFunc("/biodatas", h.Biodata.GetBiodatas).Methods("GET")
	router.HandleFunc("/allBioData", h.Biodata.GetBiodataPage).Methods("GET")
	router.HandleFunc("/biodataSearch", h.Biodata.SearchBiodata).Methods("GET")
	router.Handle("/biodata/{email}", owned("email", h.Biodata.CreateBiodata)).Methods("POST")
	router.HandleFunc("/biodata/{email}", h.Biodata.GetBiodataByEmail).Methods("GET")
	router.Handle("/biodata/{id}", open(h.Biodata.DeleteBiodata)).Methods("DELETE")
	router.HandleFunc("/biodatas/{id}", h.Biodata.GetBiodata).Methods("GET")
	router.Handle("/biodatas/{id}", open(h.Biodata.ReplaceBiodata)).Methods("PUT")
	router.HandleFunc("/user/{email}", h.Biodata.GetGender).Methods("GET")

	// favourites
	router.Handle("/addtofavourite/{email}", owned("email", h.Favorites.GetFavorites)).Methods("GET")
	router.Handle("/addtofavourite", open(h.Favorites.AddFavorite)).Methods("POST")
	router.Handle("/addtofavourite/{id}", open(h.Favorites.DeleteFavorite)).Methods("DELETE")

	// payments
	router.Handle("/create-payment-intent", open(h.Payments.CreatePaymentIntent)).Methods("POST")
	router.Handle("/payments", open(h.Payments.CreatePayment)).Methods("POST")
	router.Handle("/payments", auth.AdminOnly(http.HandlerFunc(h.Payments.GetPayments))).Methods("GET")
	router.Handle("/payments/{email}", owned("email", h.Payments.GetPaymentsByEmail)).Methods("GET")
	router.Handle("/contact/{id}", auth.AdminOnly(http.HandlerFunc(h.Payments.ApprovePayment))).Methods("PATCH")
	router.Handle("/contact/{id}", adminWhenStrict(h.Payments.DeletePayment)).Methods("DELETE")

	return cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})(router)
}
