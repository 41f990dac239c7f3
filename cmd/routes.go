package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	customerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("customer"))
	workerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("worker"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.GetMe))
	mux.Get("/user/top_workers", standardMiddleware.ThenFunc(app.userHandler.GetTopWorkers))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Repair requests
	mux.Post("/request", customerMiddleware.ThenFunc(app.requestHandler.CreateRequest))
	mux.Get("/request/search", authMiddleware.ThenFunc(app.requestHandler.SearchRequests))
	mux.Get("/request/filters", standardMiddleware.ThenFunc(app.requestHandler.GetFilters))
	mux.Get("/request/my", authMiddleware.ThenFunc(app.requestHandler.GetMyRequests))
	mux.Get("/request/:id", authMiddleware.ThenFunc(app.requestHandler.GetRequestByID))
	mux.Put("/request/:id", customerMiddleware.ThenFunc(app.requestHandler.UpdateRequest))
	mux.Del("/request/:id", customerMiddleware.ThenFunc(app.requestHandler.DeleteRequest))
	mux.Post("/request/:id/complete", authMiddleware.ThenFunc(app.requestHandler.CompleteRequest))
	mux.Post("/request/:id/cancel", customerMiddleware.ThenFunc(app.requestHandler.CancelRequest))
	mux.Put("/request/:id/final_price", customerMiddleware.ThenFunc(app.requestHandler.SetFinalPrice))

	// Responses
	mux.Post("/request/:request_id/response", workerMiddleware.ThenFunc(app.responseHandler.SubmitResponse))
	mux.Get("/request/:request_id/responses", authMiddleware.ThenFunc(app.responseHandler.GetResponsesForRequest))
	mux.Post("/response/:id/accept", customerMiddleware.ThenFunc(app.responseHandler.AcceptResponse))
	mux.Get("/response/my", workerMiddleware.ThenFunc(app.responseHandler.GetMyResponses))

	// Reviews
	mux.Post("/request/:request_id/review", customerMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/review/worker/:worker_id", authMiddleware.ThenFunc(app.reviewHandler.GetWorkerReviews))

	// User lists
	mux.Get("/list", authMiddleware.ThenFunc(app.listHandler.GetMyLists))
	mux.Post("/list/move", authMiddleware.ThenFunc(app.listHandler.MoveBetweenLists))
	mux.Get("/list/:name", authMiddleware.ThenFunc(app.listHandler.GetListItems))
	mux.Post("/list/:name", authMiddleware.ThenFunc(app.listHandler.AddToList))
	mux.Del("/list/:name/request/:request_id", authMiddleware.ThenFunc(app.listHandler.RemoveFromList))
	mux.Put("/list/:name/request/:request_id/notes", authMiddleware.ThenFunc(app.listHandler.UpdateNotes))

	// Notifications
	mux.Get("/notification", authMiddleware.ThenFunc(app.notificationHandler.GetMyNotifications))
	mux.Put("/notification/:id/read", authMiddleware.ThenFunc(app.notificationHandler.MarkRead))

	// Geolocation
	mux.Put("/location", authMiddleware.ThenFunc(app.geoHandler.UpdateMyLocation))
	mux.Get("/location", authMiddleware.ThenFunc(app.geoHandler.GetMyLocation))
	mux.Del("/location", authMiddleware.ThenFunc(app.geoHandler.DeleteMyLocation))
	mux.Get("/location/nearby_workers", customerMiddleware.ThenFunc(app.geoHandler.GetNearbyWorkers))

	// Pricing
	mux.Post("/price/predict", standardMiddleware.ThenFunc(app.priceHandler.PredictPrice))
	mux.Post("/price/complexity", standardMiddleware.ThenFunc(app.priceHandler.AnalyzeComplexity))
	mux.Get("/price/data_stats", authMiddleware.ThenFunc(app.priceHandler.DataStats))

	// Problem photos
	mux.Post("/request/:request_id/photo", customerMiddleware.ThenFunc(app.photoHandler.UploadPhoto))
	mux.Get("/request/:request_id/photos", authMiddleware.ThenFunc(app.photoHandler.GetRequestPhotos))

	return mux
}
