package adis16490

// Logical register addresses. The high byte is the page number, the low byte
// the in-page offset. The numeric values come straight from the ADIS16490
// register map and must not be changed.

// Page 0: output data and identification
const (
	RegPageID      uint16 = 0x0000
	RegDataCnt     uint16 = 0x0004
	RegSysEFlag    uint16 = 0x0008
	RegDiagSts     uint16 = 0x000A
	RegAlmSts      uint16 = 0x000C
	RegTempOut     uint16 = 0x000E
	RegXGyroLow    uint16 = 0x0010
	RegXGyroOut    uint16 = 0x0012
	RegYGyroLow    uint16 = 0x0014
	RegYGyroOut    uint16 = 0x0016
	RegZGyroLow    uint16 = 0x0018
	RegZGyroOut    uint16 = 0x001A
	RegXAcclLow    uint16 = 0x001C
	RegXAcclOut    uint16 = 0x001E
	RegYAcclLow    uint16 = 0x0020
	RegYAcclOut    uint16 = 0x0022
	RegZAcclLow    uint16 = 0x0024
	RegZAcclOut    uint16 = 0x0026
	RegTimeStamp   uint16 = 0x0028
	RegXDeltAngLow uint16 = 0x0040
	RegXDeltAngOut uint16 = 0x0042
	RegYDeltAngLow uint16 = 0x0044
	RegYDeltAngOut uint16 = 0x0046
	RegZDeltAngLow uint16 = 0x0048
	RegZDeltAngOut uint16 = 0x004A
	RegXDeltVelLow uint16 = 0x004C
	RegXDeltVelOut uint16 = 0x004E
	RegYDeltVelLow uint16 = 0x0050
	RegYDeltVelOut uint16 = 0x0052
	RegZDeltVelLow uint16 = 0x0054
	RegZDeltVelOut uint16 = 0x0056
	RegProdID      uint16 = 0x007E
)

// Page 2: calibration
const (
	RegXGyroScale uint16 = 0x0204
	RegYGyroScale uint16 = 0x0206
	RegZGyroScale uint16 = 0x0208
	RegXAcclScale uint16 = 0x020A
	RegYAcclScale uint16 = 0x020C
	RegZAcclScale uint16 = 0x020E
	RegXGBiasLow  uint16 = 0x0210
	RegXGBiasHigh uint16 = 0x0212
	RegYGBiasLow  uint16 = 0x0214
	RegYGBiasHigh uint16 = 0x0216
	RegZGBiasLow  uint16 = 0x0218
	RegZGBiasHigh uint16 = 0x021A
	RegXABiasLow  uint16 = 0x021C
	RegXABiasHigh uint16 = 0x021E
	RegYABiasLow  uint16 = 0x0220
	RegYABiasHigh uint16 = 0x0222
	RegZABiasLow  uint16 = 0x0224
	RegZABiasHigh uint16 = 0x0226
	RegUserScr1   uint16 = 0x0274
	RegUserScr2   uint16 = 0x0276
	RegUserScr3   uint16 = 0x0278
	RegUserScr4   uint16 = 0x027A
	RegFlshCntLow uint16 = 0x027C
	RegFlshCntHi  uint16 = 0x027E
)

// Page 3: control
const (
	RegGlobCmd    uint16 = 0x0302
	RegFnctioCtrl uint16 = 0x0306
	RegGpioCtrl   uint16 = 0x0308
	RegConfig     uint16 = 0x030A
	RegDecRate    uint16 = 0x030C
	RegNullCnfg   uint16 = 0x030E
	RegSyncScale  uint16 = 0x0310
	RegFiltrBnk0  uint16 = 0x0316
	RegFiltrBnk1  uint16 = 0x0318
	RegFirmRev    uint16 = 0x0378
	RegFirmDM     uint16 = 0x037A
	RegFirmY      uint16 = 0x037C
	RegBootRev    uint16 = 0x037E
)

// Page 4: serial number and signature
const (
	RegCalSigtrLwr  uint16 = 0x0404
	RegCalSigtrUpr  uint16 = 0x0406
	RegCalDrvtnLwr  uint16 = 0x0408
	RegCalDrvtnUpr  uint16 = 0x040A
	RegCodeSigtrLwr uint16 = 0x040C
	RegCodeSigtrUpr uint16 = 0x040E
	RegCodeDrvtnLwr uint16 = 0x0410
	RegCodeDrvtnUpr uint16 = 0x0412
	RegSerialNum    uint16 = 0x0420
)

// FIR coefficient banks live on pages 5 to 12. They are written bank by bank
// with RegWrite, no named constants are provided for the individual taps.
const (
	FirCoeffPageFirst uint8 = 5
	FirCoeffPageLast  uint8 = 12
)

// ProductID is the value the PROD_ID register reads on an ADIS16490.
const ProductID uint16 = 0x406A
