package shtml

import (
	"fmt"
	"net/url"
	"path"
)

// rewriteImageSrc implements §4.3's three-form image rewrite.
func rewriteImageSrc(src string, resolver ImageResolver) string {
	if resolver != nil {
		if archive, rel, ok := resolver.ArchiveRelative(src); ok {
			return "/img?a=" + url.QueryEscape(archive) + "&rp=" + url.QueryEscape(rel)
		}
		base := path.Base(src)
		if resolver.KpseBasename(base) {
			return "/img?kpse=" + url.QueryEscape(base)
		}
	}
	return fmt.Sprintf("/img?file=%s", url.QueryEscape(src))
}
