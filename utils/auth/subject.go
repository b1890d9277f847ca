package auth

import (
	"errors"
	"strconv"
)

var errBadSubject = errors.New("subject is not a user id")

func formatUserID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func parseUserID(subject string) (uint, error) {
	if subject == "" {
		return 0, errBadSubject
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errBadSubject
	}
	return uint(id), nil
}
