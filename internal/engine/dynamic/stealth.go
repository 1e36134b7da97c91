package dynamic

import (
	"fmt"

	"github.com/go-rod/stealth"
)

// navigatorOverrides aligns the navigator with the emulated profile. stealth.JS
// already hides webdriver, plugins and the headless user agent hints.
const navigatorOverrides = `(() => {
  const define = (obj, prop, value) => {
    try { Object.defineProperty(obj, prop, { get: () => value, configurable: true }); } catch (e) {}
  };
  define(Navigator.prototype, 'webdriver', undefined);
  define(Navigator.prototype, 'languages', %q.split(','));
  define(Navigator.prototype, 'language', %q);
  define(Navigator.prototype, 'platform', %q);
  define(Navigator.prototype, 'hardwareConcurrency', 8);
  define(Navigator.prototype, 'deviceMemory', 8);
  if (!window.chrome) { window.chrome = { runtime: {} }; }
})();`

// stealthScript is evaluated in every new document before page scripts run
func stealthScript(p Profile) string {
	return stealth.JS + "\n" + fmt.Sprintf(navigatorOverrides, p.AcceptLanguage, p.Locale, p.Platform)
}
