// Package restify defines the per-model routing configuration consumed by the
// route composer.
//
// A GORM model opts into automatic CRUD routing by implementing Restifiable.
// The returned Options describe, per operation, how a request is authorized,
// how its payload is validated and which data-access handler runs. Every
// section is optional; absent entries fall back to the mount-wide defaults.
//
//	func (Post) Restify() restify.Options {
//		return restify.Options{
//			Validate: map[restify.Op]restify.Validator{
//				restify.Create: restify.Schema(map[string]string{
//					"title":   "required,min=1,max=140",
//					"message": "required,min=1,max=255",
//				}),
//			},
//		}
//	}
//
// The handler shapes are tagged variants (absent, static, single function,
// role-keyed map) decided once at route-composition time, never re-sniffed
// per request.
package restify
