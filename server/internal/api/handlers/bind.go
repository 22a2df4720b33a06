package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	paramNamespace = "namespace"
	paramName      = "name"
)

// bindObject decodes a Kubernetes-style body into obj and places it in the
// namespace of the path. It answers 400 and returns false on failure.
func bindObject(c *gin.Context, obj metav1.Object) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondInvalid(c, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	namespace := c.Param(paramNamespace)
	if ns := obj.GetNamespace(); ns != "" && ns != namespace {
		respondInvalid(c, fmt.Errorf("metadata.namespace %q does not match the namespace %q of the request", ns, namespace))
		return false
	}
	obj.SetNamespace(namespace)
	return true
}

// bindNamedObject is bindObject for update requests: the name in the body
// must be empty or match the name in the path.
func bindNamedObject(c *gin.Context, obj metav1.Object) bool {
	if !bindObject(c, obj) {
		return false
	}
	name := c.Param(paramName)
	if n := obj.GetName(); n != "" && n != name {
		respondInvalid(c, fmt.Errorf("metadata.name %q does not match the name %q of the request", n, name))
		return false
	}
	obj.SetName(name)
	return true
}
