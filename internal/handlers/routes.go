package handlers

import "net/http"

// Dependencies aggregates collaborators required by the HTTP handlers.
type Dependencies struct {
	Users       UserStore
	Sessions    SessionManager
	Posts       PostStore
	Likes       LikeStore
	Comments    CommentStore
	Follows     FollowStore
	Media       MediaStore
	AuthLimiter RateLimiter
}

// Middleware wraps a handler, typically with authentication.
type Middleware func(http.Handler) http.Handler

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Routes
// behind requireAuth expect an actor on the request context.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies, requireAuth Middleware) {
	health := HealthHandler{}
	authH := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	postsH := PostHandler{Posts: deps.Posts, Likes: deps.Likes, Comments: deps.Comments, Media: deps.Media}
	commentsH := CommentHandler{Comments: deps.Comments, Posts: deps.Posts}
	usersH := UserHandler{Users: deps.Users, Follows: deps.Follows}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/auth/register", authH.Register)
	mux.HandleFunc("/api/v1/auth/login", authH.Login)
	mux.HandleFunc("/api/v1/auth/refresh", authH.Refresh)
	mux.HandleFunc("/api/v1/auth/password-reset", authH.RequestPasswordReset)

	protected := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(handler))
	}

	protected("/api/v1/auth/logout", authH.Logout)

	protected("/api/v1/posts", postsH.Collection)
	protected("/api/v1/posts/{id}", postsH.Detail)
	protected("/api/v1/posts/{id}/like", postsH.Like)
	protected("/api/v1/posts/{id}/convert", postsH.Convert)
	protected("/api/v1/posts/{id}/comments", postsH.PostComments)

	protected("/api/v1/comments", commentsH.Collection)
	protected("/api/v1/comments/{id}", commentsH.Detail)

	protected("/api/v1/profile/me", usersH.Me)
	protected("/api/v1/users/{id}", usersH.Detail)
	protected("/api/v1/users/{id}/follow", usersH.Follow)
}
