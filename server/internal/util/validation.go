// Package util holds the field validators shared by everest-server handlers.
package util

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	k8svalidation "k8s.io/apimachinery/pkg/util/validation"
)

// ErrInvalidURL is returned by ValidateURLField.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateRFC1035 checks that s is a valid RFC 1035 label, the form
// Kubernetes requires for the names of most objects.
//
// Example:
//
//	if err := util.ValidateRFC1035(req.Name, "name"); err != nil {
//	    return errors.Join(models.ErrInvalidRequest, err)
//	}
func ValidateRFC1035(s, field string) error {
	if msgs := k8svalidation.IsDNS1035Label(s); len(msgs) > 0 {
		return fmt.Errorf("'%s' is not RFC 1035 compatible. The name should contain only lowercase "+
			"alphanumeric characters or '-', start with an alphabetic character, end with an "+
			"alphanumeric character and be at most %d characters long (%s)",
			field, k8svalidation.DNS1035LabelMaxLength, strings.Join(msgs, "; "))
	}
	return nil
}

// ValidateURL reports whether s is an absolute http or https URL with a host.
func ValidateURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateURLField returns an error naming field when s is not a valid URL.
func ValidateURLField(s, field string) error {
	if !ValidateURL(s) {
		return fmt.Errorf("%w: '%s' is an invalid URL", ErrInvalidURL, field)
	}
	return nil
}

// ValidateSourceRange checks an entry of an expose.ipSourceRanges list.
// It accepts CIDR notation or a single IP address.
func ValidateSourceRange(r string) error {
	if strings.Contains(r, "/") {
		if _, _, err := net.ParseCIDR(r); err != nil {
			return fmt.Errorf("invalid CIDR notation %q: %w", r, err)
		}
		return nil
	}
	if net.ParseIP(r) == nil {
		return fmt.Errorf("invalid IP address %q", r)
	}
	return nil
}
