package http

import (
	"errors"
	"fmt"
	"net/http"

	"unistay-backend/internal/domain"
)

func chatIDs(r *http.Request) (propertyID, otherID int32, ok bool) {
	propertyID, ok1 := pathID(r, "property_id")
	otherID, ok2 := pathID(r, "other_user_id")
	return propertyID, otherID, ok1 && ok2
}

func (h *Handler) handleChatThread(w http.ResponseWriter, r *http.Request) {
	propertyID, otherID, ok := chatIDs(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	thread, err := h.Chats.Thread(r.Context(), CallerFromContext(r.Context()), propertyID, otherID)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	h.render(w, r, http.StatusOK, "chat", h.newPage(w, r, "Chat about "+thread.Property.Title, thread))
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	propertyID, otherID, ok := chatIDs(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	caller := CallerFromContext(r.Context())
	self := fmt.Sprintf("/chat/%d/%d", propertyID, otherID)

	if _, err := h.Chats.SendMessage(r.Context(), caller, propertyID, otherID, r.PostFormValue("message")); err != nil {
		var v *domain.ValidationError
		if errors.As(err, &v) {
			thread, terr := h.Chats.Thread(r.Context(), caller, propertyID, otherID)
			if terr != nil {
				h.fail(w, r, terr, "/")
				return
			}
			page := h.newPage(w, r, "Chat about "+thread.Property.Title, thread).withErrors(r, v)
			h.render(w, r, http.StatusOK, "chat", page)
			return
		}
		h.fail(w, r, err, "/")
		return
	}
	h.setFlash(w, flashSuccess, "Message sent!")
	http.Redirect(w, r, self, http.StatusSeeOther)
}

func (h *Handler) handleRecentChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Chats.RecentChats(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}
