// Package layout derives every generated file's location from the owning
// declaration's fully qualified name and role. Paths are pure functions of
// the IR, which is what lets files be opened lazily in any order.
package layout

import (
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

// Directory names in the generated tree.
const (
	PublicRoot      = "api"
	ResourcesDir    = "resources"
	TypesDir        = "types"
	ErrorsDir       = "errors"
	ClientDir       = "client"
	ServiceTypesDir = "service-types"

	RootIndex = "index.ts"
	Extension = ".ts"
)

// Fixed symbol names inside service-types directories.
const (
	RequestSymbol     = "Request"
	ResponseSymbol    = "Response"
	SuccessSymbol     = "SuccessfulResponse"
	ErrorSymbol       = "ErrorResponse"
	ErrorBodySymbol   = "ErrorBody"
	ServiceSymbol     = "Service"
	ClientSymbol      = "Client"
	ChannelSymbol     = "Channel"
	ServiceTypesAlias = "serviceTypes"
)

// NamespaceDir returns the directory for a namespace path:
// api, api/resources/a, api/resources/a/resources/b, ...
func NamespaceDir(fernFilepath []string) string {
	dir := PublicRoot
	for _, seg := range fernFilepath {
		dir = tsfile.Join(dir, ResourcesDir, NamespaceSegment(seg))
	}
	return dir
}

// NamespaceSegment is the directory name (and re-export namespace) of one
// namespace path segment.
func NamespaceSegment(seg string) string {
	return naming.MemberName(seg)
}

// TypeSymbol is the exported name of a declared type.
func TypeSymbol(name ir.DeclaredName) string {
	return naming.TypeName(name.Name)
}

// TypeFile is the path of the file declaring a type.
func TypeFile(name ir.DeclaredName) string {
	return tsfile.Join(NamespaceDir(name.FernFilepath), TypesDir, naming.FileName(TypeSymbol(name))+Extension)
}

// ErrorSymbolFor is the exported name of a declared error.
func ErrorSymbolFor(name ir.DeclaredName) string {
	return naming.TypeName(name.Name)
}

// ErrorFile is the path of the file declaring an error body type.
func ErrorFile(name ir.DeclaredName) string {
	return tsfile.Join(NamespaceDir(name.FernFilepath), ErrorsDir, naming.FileName(ErrorSymbolFor(name))+Extension)
}

// ServiceNamespace is the namespace a service or channel file is re-exported under.
func ServiceNamespace(name ir.DeclaredName) string {
	return naming.TypeName(name.Name)
}

// ServiceFile is the path of the client file for an HTTP service or channel.
func ServiceFile(name ir.DeclaredName) string {
	return tsfile.Join(NamespaceDir(name.FernFilepath), ClientDir, naming.FileName(ServiceNamespace(name))+Extension)
}

// ServiceTypesRoot is the service-types directory of a namespace.
func ServiceTypesRoot(fernFilepath []string) string {
	return tsfile.Join(NamespaceDir(fernFilepath), ServiceTypesDir)
}

// ServiceTypesServiceDir groups the endpoint directories of one service.
func ServiceTypesServiceDir(service ir.DeclaredName) string {
	return tsfile.Join(ServiceTypesRoot(service.FernFilepath), ServiceNamespace(service))
}

// EndpointDir holds Request.ts, Response.ts and ErrorBody.ts for one
// endpoint or operation.
func EndpointDir(service ir.DeclaredName, endpointID string) string {
	return tsfile.Join(ServiceTypesServiceDir(service), naming.MemberName(endpointID))
}

// EndpointNamespace is how an endpoint directory is re-exported and the alias
// clients import it under.
func EndpointNamespace(endpointID string) string {
	return naming.TypeName(endpointID)
}

// RequestFile, ResponseFile and ErrorBodyFile live in EndpointDir.
func RequestFile(service ir.DeclaredName, endpointID string) string {
	return tsfile.Join(EndpointDir(service, endpointID), RequestSymbol+Extension)
}

func ResponseFile(service ir.DeclaredName, endpointID string) string {
	return tsfile.Join(EndpointDir(service, endpointID), ResponseSymbol+Extension)
}

func ErrorBodyFile(service ir.DeclaredName, endpointID string) string {
	return tsfile.Join(EndpointDir(service, endpointID), ErrorBodySymbol+Extension)
}

// Module strips the extension from a file path.
func Module(filePath string) string {
	return filePath[:len(filePath)-len(Extension)]
}
