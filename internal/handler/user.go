package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

type userDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// adminListUsers returns all accounts.
func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]userDTO, len(users))
	for i := range users {
		out[i] = toUserDTO(&users[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// adminGetUser returns a single account.
func (h *Handler) adminGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(u))
}

type userRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (req *userRequest) parse(id string) (*user.User, string, bool) {
	if req.Email == "" {
		return nil, "email is required", false
	}
	role := user.Role(req.Role)
	if role == "" {
		role = user.RoleCustomer
	}
	if role != user.RoleCustomer && role != user.RoleAdmin {
		return nil, "unknown role", false
	}
	return &user.User{ID: id, Email: req.Email, Name: req.Name, Role: role}, "", true
}

// adminCreateUser registers a new account.
func (h *Handler) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, msg, ok := req.parse(uuid.New().String())
	if !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserDTO(u))
}

// adminUpdateUser rewrites an account's profile.
func (h *Handler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, msg, ok := req.parse(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.users.Update(r.Context(), u); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(u))
}

// adminDeleteUser removes an account.
func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addressDTO struct {
	ID         string `json:"id"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func toAddressDTO(a *user.Address) addressDTO {
	return addressDTO{
		ID:         a.ID,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// listAddresses returns the caller's address book.
func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	addresses, err := h.users.ListAddresses(r.Context(), id.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]addressDTO, len(addresses))
	for i := range addresses {
		out[i] = toAddressDTO(&addresses[i])
	}
	respondJSON(w, http.StatusOK, out)
}

type addressRequest struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// createAddress adds an entry to the caller's address book.
func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Line1 == "" || req.City == "" || req.Country == "" {
		respondError(w, http.StatusBadRequest, "line1, city and country are required")
		return
	}

	a := &user.Address{
		ID:         uuid.New().String(),
		UserID:     id.UserID,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := h.users.CreateAddress(r.Context(), a); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAddressDTO(a))
}
